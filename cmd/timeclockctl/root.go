package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultServer = "http://localhost:8080"

var errNotLoggedIn = errors.New("not logged in, run `timeclockctl login` first")

// cli holds global flags and the I/O seams commands use.
type cli struct {
	server      string
	sessionPath string

	in           io.Reader
	out          io.Writer
	isTerminal   func() bool
	readPassword func() ([]byte, error)
}

func newCLI() *cli {
	fd := int(os.Stdin.Fd())
	return &cli{
		in:           os.Stdin,
		out:          os.Stdout,
		isTerminal:   func() bool { return term.IsTerminal(fd) },
		readPassword: func() ([]byte, error) { return term.ReadPassword(fd) },
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "timeclockctl",
		Short:         "Check in, check out and export your working hours",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.server, "server", "", "Time clock base URL (default: saved session, $TIMECLOCK_SERVER or "+defaultServer+")")
	root.PersistentFlags().StringVar(&c.sessionPath, "session", "", "Session file (default: ~/.config/timeclock/session.yaml)")

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.forgotPasswordCmd(),
		c.resetPasswordCmd(),
		c.settingsCmd(),
		c.deleteAccountCmd(),
		c.scanCmd(),
		c.statusCmd(),
		c.recordsCmd(),
		c.summaryCmd(),
		c.reportCmd(),
		c.badgeCmd(),
		c.kioskCmd(),
	)
	return root
}

// serverURL resolves the base URL: flag, then saved session, then env.
func (c *cli) serverURL(saved string) string {
	switch {
	case c.server != "":
		return c.server
	case saved != "":
		return saved
	case os.Getenv("TIMECLOCK_SERVER") != "":
		return os.Getenv("TIMECLOCK_SERVER")
	default:
		return defaultServer
	}
}

func (c *cli) sessionFile() (string, error) {
	if c.sessionPath != "" {
		return c.sessionPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timeclock", "session.yaml"), nil
}

func (c *cli) client() *clocksdk.Client {
	saved, _ := c.loadSession()
	var server string
	if saved != nil {
		server = saved.Server
	}
	return clocksdk.NewClient(c.serverURL(server))
}

// withSession loads the saved session, runs fn and persists any refreshed
// tokens afterwards, even when fn fails.
func (c *cli) withSession(ctx context.Context, fn func(*clocksdk.Session) error) error {
	saved, err := c.loadSession()
	if err != nil {
		return err
	}
	if saved == nil {
		return errNotLoggedIn
	}

	client := clocksdk.NewClient(c.serverURL(saved.Server))
	sess := client.NewSessionFromTokens(saved.Tokens)

	runErr := fn(sess)
	if errors.Is(runErr, clocksdk.ErrInvalidToken) || errors.Is(runErr, clocksdk.ErrInvalidRefreshToken) {
		return fmt.Errorf("%w (%w)", errNotLoggedIn, runErr)
	}

	saved.Tokens = sess.Tokens()
	if err := c.saveSession(saved); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// prompt reads one line, echoing label first.
func (c *cli) prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// password reads a secret without echo on a terminal, or a plain line
// when input is piped.
func (c *cli) password(r *bufio.Reader, label string) (string, error) {
	if !c.isTerminal() {
		return c.prompt(r, label)
	}
	fmt.Fprint(c.out, label)
	pw, err := c.readPassword()
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
