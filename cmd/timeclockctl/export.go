package main

import (
	"fmt"
	"os"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/spf13/cobra"
)

func (c *cli) reportCmd() *cobra.Command {
	var kind, month, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download a PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				rep, err := sess.Report(cmd.Context(), kind, month)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = rep.FileName
				}
				if err := os.WriteFile(path, rep.Content, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Saved %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "total", "Report kind: total or month")
	cmd.Flags().StringVar(&month, "month", "", "Month for --kind month as YYYY-MM (default: current month)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: server suggested name)")
	return cmd
}

func (c *cli) badgeCmd() *cobra.Command {
	var (
		size   int
		out    string
		rotate bool
	)
	cmd := &cobra.Command{
		Use:   "badge",
		Short: "Save your personal QR badge as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				if rotate {
					if err := sess.RotateBadge(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(c.out, "Badge secret rotated, previously printed badges no longer work")
				}
				png, err := sess.Badge(cmd.Context(), size)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, png, 0o600); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Saved %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&size, "size", 256, "Edge length in pixels (64-1024)")
	cmd.Flags().StringVarP(&out, "out", "o", "badge.png", "Output file")
	cmd.Flags().BoolVar(&rotate, "rotate", false, "Invalidate the current badge first")
	return cmd
}
