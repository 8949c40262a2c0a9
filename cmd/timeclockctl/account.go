package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/spf13/cobra"
)

func (c *cli) registerCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := bufio.NewReader(c.in)
			var err error
			if name == "" {
				if name, err = c.prompt(r, "Name: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = c.prompt(r, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.password(r, "Password: "); err != nil {
					return err
				}
				confirm, err := c.password(r, "Confirm password: ")
				if err != nil {
					return err
				}
				if confirm != password {
					return clocksdk.ErrPasswordMismatch
				}
			}

			profile, err := c.client().Register(cmd.Context(), clocksdk.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Registered %s <%s>, %d contracted hours per week\n", profile.Name, profile.Email, profile.WeeklyHours)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := bufio.NewReader(c.in)
			var err error
			if email == "" {
				if email, err = c.prompt(r, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.password(r, "Password: "); err != nil {
					return err
				}
			}

			client := c.client()
			sess, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			profile, err := sess.Profile(cmd.Context())
			if err != nil {
				return err
			}

			if err := c.saveSession(&savedSession{
				Server: client.BaseURL,
				Email:  profile.Email,
				Tokens: sess.Tokens(),
			}); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Signed in as %s\n", profile.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			saved, err := c.loadSession()
			if err != nil {
				return err
			}
			if saved == nil {
				fmt.Fprintln(c.out, "Not signed in")
				return nil
			}

			client := clocksdk.NewClient(c.serverURL(saved.Server))
			revokeErr := client.NewSessionFromTokens(saved.Tokens).Revoke(cmd.Context())
			if err := c.clearSession(); err != nil {
				return errors.Join(revokeErr, err)
			}
			if revokeErr != nil {
				fmt.Fprintf(c.out, "Signed out locally; the server could not revoke the session: %v\n", revokeErr)
				return nil
			}
			fmt.Fprintln(c.out, "Signed out")
			return nil
		},
	}
}

func (c *cli) forgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password EMAIL",
		Short: "Request a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client().ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "If the address is registered, a reset link is on its way")
			return nil
		},
	}
}

func (c *cli) resetPasswordCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Choose a new password with the token from a reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := bufio.NewReader(c.in)
			var err error
			if token == "" {
				if token, err = c.prompt(r, "Reset token: "); err != nil {
					return err
				}
			}
			pw, err := c.password(r, "New password: ")
			if err != nil {
				return err
			}
			confirm, err := c.password(r, "Confirm password: ")
			if err != nil {
				return err
			}

			if err := c.client().ResetPassword(cmd.Context(), clocksdk.ResetPasswordRequest{
				Token:           token,
				NewPassword:     pw,
				ConfirmPassword: confirm,
			}); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Password updated, sign in again with `timeclockctl login`")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Token from the reset link")
	return cmd
}

func (c *cli) settingsCmd() *cobra.Command {
	var (
		name        string
		weeklyHours int
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change your name and contracted weekly hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req clocksdk.UpdateProfileRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("weekly-hours") {
				req.WeeklyHours = &weeklyHours
			}

			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				var (
					profile *clocksdk.ProfileResponse
					err     error
				)
				if req.Name == nil && req.WeeklyHours == nil {
					profile, err = sess.Profile(cmd.Context())
				} else {
					profile, err = sess.UpdateProfile(cmd.Context(), req)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Name:         %s\n", profile.Name)
				fmt.Fprintf(c.out, "Email:        %s\n", profile.Email)
				fmt.Fprintf(c.out, "Weekly hours: %d\n", profile.WeeklyHours)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().IntVar(&weeklyHours, "weekly-hours", 0, "Contracted hours per week (1-168)")
	return cmd
}

func (c *cli) deleteAccountCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account and every time record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			err := c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				return sess.DeleteAccount(cmd.Context())
			})
			if err != nil {
				return err
			}
			if err := c.clearSession(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Account deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
