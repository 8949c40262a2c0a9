/*
Package clocksdk is the Go client for the timeclock service.

# Client and Session

A Client covers the public endpoints (registration, password reset, health)
and signs users in. Login returns a Session, which carries the access and
refresh tokens and refreshes the access token automatically:

	client := clocksdk.NewClient("https://timeclock.example.com")

	session, err := client.Login(ctx, "jane@example.com", password)
	if err != nil {
		return err
	}

	res, err := session.Scan(ctx, "")
	fmt.Println(res.Message) // "Checked In at 09:02"

Refresh tokens rotate on every refresh. Persist Session.Tokens after each use
and restore it with Client.NewSessionFromTokens.

Session.Check verifies a restored session. It gives the server
SessionCheckTimeout to answer and otherwise reports ErrSignedOut.

# Kiosk

A KioskClient is used by shared terminals. It posts decoded badges with Scan
and follows every check-in and check-out with Events.

# Errors

Every failed request returns an *APIError parsed from the response body, so
callers can compare with the predefined errors:

	if errors.Is(err, clocksdk.ErrInvalidCredentials) {
		// wrong email or password
	}
*/
package clocksdk
