package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/spf13/cobra"
)

func (c *cli) kioskCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "kiosk",
		Short: "Operate a shared check-in kiosk",
	}
	cmd.PersistentFlags().StringVar(&token, "token", "", "Kiosk token (default: $TIMECLOCK_KIOSK_TOKEN)")

	kiosk := func() (*clocksdk.KioskClient, error) {
		t := token
		if t == "" {
			t = os.Getenv("TIMECLOCK_KIOSK_TOKEN")
		}
		if t == "" {
			return nil, errors.New("a kiosk token is required")
		}
		return clocksdk.NewKioskClient(c.client().BaseURL, t), nil
	}

	scan := &cobra.Command{
		Use:   "scan PAYLOAD",
		Short: "Submit the JSON decoded from a badge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kiosk()
			if err != nil {
				return err
			}
			var badge clocksdk.BadgePayload
			if err := json.Unmarshal([]byte(args[0]), &badge); err != nil {
				return clocksdk.ErrInvalidBadge
			}
			res, err := k.Scan(cmd.Context(), badge)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s: %s\n", res.Name, res.Message)
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print check-ins and check-outs as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := kiosk()
			if err != nil {
				return err
			}
			err = k.Events(cmd.Context(), func(ev clocksdk.ClockEvent) {
				fmt.Fprintf(c.out, "%s  %-5s %s: %s\n", ev.At.Local().Format("15:04:05"), ev.Source, ev.Name, ev.Message)
			})
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.AddCommand(scan, watch)
	return cmd
}
