package clocksdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// KioskClient is used by shared check-in terminals. It authenticates with
// the kiosk token instead of a user session.
type KioskClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
}

// NewKioskClient creates a kiosk client for the given server and kiosk token.
func NewKioskClient(baseURL, token string) *KioskClient {
	return &KioskClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Scan submits a decoded badge. The server validates the one-time code and
// toggles the badge owner's shift.
func (k *KioskClient) Scan(ctx context.Context, badge BadgePayload) (*KioskScanResponse, error) {
	body, headers, err := jsonBody(badge)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.BaseURL+"/v1/kiosk/scan", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+k.Token)

	resp, err := k.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var scan KioskScanResponse
	if err := decodeJSON(resp, &scan, http.StatusOK); err != nil {
		return nil, err
	}

	return &scan, nil
}

// Events streams clock events to fn until ctx is cancelled or the server
// closes the stream. A cancelled context returns ctx.Err().
func (k *KioskClient) Events(ctx context.Context, fn func(ClockEvent)) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+k.Token)

	conn, resp, err := k.Dialer.DialContext(ctx, k.eventsURL(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return parseErrorResponse(resp, body)
		}
		return fmt.Errorf("failed to dial events: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var ev ClockEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return fmt.Errorf("failed to read event: %w", err)
		}
		fn(ev)
	}
}

func (k *KioskClient) eventsURL() string {
	u := k.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/v1/kiosk/events"
}
