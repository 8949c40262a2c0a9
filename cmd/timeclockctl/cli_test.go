package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tchttp "github.com/aussiebroadwan/timeclock/internal/timeclock/http"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/service"
	"github.com/aussiebroadwan/timeclock/internal/timeclock/store/drivers/sqlite"
	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
	"github.com/aussiebroadwan/timeclock/pkg/jwtx"
	"github.com/aussiebroadwan/timeclock/pkg/slogx"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("cli-test-pepper")
	os.Exit(m.Run())
}

func newServer(t *testing.T) string {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "timeclock", NumKeys: 1})
	require.NoError(t, err)

	router := tchttp.NewRouter(km.KeySet, km.Verifier, "test", st, slogx.Discard())
	router.AccountService = &service.AccountService{
		Store:              st,
		KeyManager:         km,
		Issuer:             "timeclock",
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         time.Hour,
		DefaultWeeklyHours: 40,
	}
	router.PasswordService = &service.PasswordService{Store: st, Mailer: service.LogMailer{Logger: slogx.Discard()}}
	router.ClockService = &service.ClockService{Store: st, Location: time.UTC}
	router.SummaryService = &service.SummaryService{Store: st, Location: time.UTC}
	router.ReportService = &service.ReportService{Store: st, Location: time.UTC}
	router.BadgeService = &service.BadgeService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

type harness struct {
	t           *testing.T
	server      string
	sessionPath string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:           t,
		server:      newServer(t),
		sessionPath: filepath.Join(t.TempDir(), "session.yaml"),
	}
}

// run executes one command with stdin piped from input.
func (h *harness) run(input string, args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	c := &cli{
		in:           strings.NewReader(input),
		out:          &out,
		isTerminal:   func() bool { return false },
		readPassword: func() ([]byte, error) { panic("not a terminal") },
	}
	root := newRootCmd(c)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", h.server, "--session", h.sessionPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(input string, args ...string) string {
	h.t.Helper()
	out, err := h.run(input, args...)
	require.NoError(h.t, err, out)
	return out
}

func TestWorkdayFlow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("Jane Doe\njane@example.com\nhunter22\nhunter22\n", "register")
	require.Contains(t, out, "Registered Jane Doe <jane@example.com>, 40 contracted hours")

	_, err := h.run("", "status")
	require.ErrorIs(t, err, errNotLoggedIn)

	out = h.mustRun("jane@example.com\nhunter22\n", "login")
	require.Contains(t, out, "Signed in as Jane Doe")

	cli := &cli{sessionPath: h.sessionPath}
	saved, err := cli.loadSession()
	require.NoError(t, err)
	want := &savedSession{Server: h.server, Email: "jane@example.com"}
	require.Empty(t, cmp.Diff(want, saved, cmpopts.IgnoreFields(savedSession{}, "Tokens")))
	require.NotEmpty(t, saved.Tokens.RefreshToken)
	require.Contains(t, saved.Tokens.Scope, "records:write")

	out = h.mustRun("", "scan")
	require.Contains(t, out, "Checked In at")

	out = h.mustRun("", "status")
	require.Contains(t, out, "Working since")

	out = h.mustRun("", "scan")
	require.Contains(t, out, "Checked Out at")
	require.Contains(t, out, "Shift length: 0h 0m")

	out = h.mustRun("", "records")
	require.Contains(t, out, "CHECK IN")
	require.Contains(t, out, "0h 0m")

	out = h.mustRun("", "settings", "--weekly-hours", "38")
	require.Contains(t, out, "Weekly hours: 38")

	out = h.mustRun("", "summary")
	require.Contains(t, out, "Contracted: 38h 0m")
	require.Contains(t, out, "Overtime:   0h 0m")

	_, err = h.run("", "settings", "--weekly-hours", "200")
	require.Error(t, err)

	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.pdf")
	h.mustRun("", "report", "--kind", "total", "--out", reportPath)
	pdf, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	badgePath := filepath.Join(dir, "badge.png")
	h.mustRun("", "badge", "--rotate", "--size", "128", "--out", badgePath)
	png, err := os.ReadFile(badgePath)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	out = h.mustRun("", "logout")
	require.Contains(t, out, "Signed out")
	_, err = os.Stat(h.sessionPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegisterPasswordConfirmation(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("Jane\njane@example.com\nhunter22\nhunter23\n", "register")
	require.Error(t, err)
}

func TestRevokedSessionAsksForLogin(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "register", "--name", "Jane", "--email", "jane@example.com", "--password", "hunter22")
	h.mustRun("", "login", "--email", "jane@example.com", "--password", "hunter22")

	cli := &cli{sessionPath: h.sessionPath}
	saved, err := cli.loadSession()
	require.NoError(t, err)

	// Expire the access token locally and revoke the refresh token.
	saved.Tokens.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, cli.saveSession(saved))
	_, err = h.run("", "logout")
	require.NoError(t, err)
	require.NoError(t, cli.saveSession(saved))

	_, err = h.run("", "status")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestKioskRequiresToken(t *testing.T) {
	h := newHarness(t)
	t.Setenv("TIMECLOCK_KIOSK_TOKEN", "")
	_, err := h.run("", "kiosk", "scan", `{"uid":"x","otp":"123456"}`)
	require.ErrorContains(t, err, "kiosk token is required")
}
