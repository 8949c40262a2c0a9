package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"github.com/spf13/cobra"
)

const timeLayout = "Mon 02 Jan 2006 15:04"

func (c *cli) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [QR-CODE]",
		Short: "Check in, or check out when a shift is open",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 1 {
				code = args[0]
			}
			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				res, err := sess.Scan(cmd.Context(), code)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.out, res.Message)
				if res.Action == "out" {
					fmt.Fprintf(c.out, "Shift length: %s\n", res.Record.Duration)
				}
				return nil
			})
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are checked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				st, err := sess.Status(cmd.Context())
				if err != nil {
					return err
				}
				if st.Working && st.Current != nil {
					fmt.Fprintf(c.out, "Working since %s\n", st.Current.CheckIn.Local().Format(timeLayout))
				} else {
					fmt.Fprintln(c.out, "Not working")
				}
				if st.LastCheckOut != nil {
					fmt.Fprintf(c.out, "Last check-out: %s\n", st.LastCheckOut.Local().Format(timeLayout))
				}
				return nil
			})
		},
	}
}

func (c *cli) recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List every time record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				list, err := sess.Records(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CHECK IN\tCHECK OUT\tDURATION")
				for _, rec := range list.Records {
					fmt.Fprintf(tw, "%s\t%s\t%s\n",
						rec.CheckIn.Local().Format(timeLayout),
						formatCheckOut(rec.CheckOut),
						rec.Duration,
					)
				}
				fmt.Fprintf(tw, "\t\t%s\n", list.Total)
				return tw.Flush()
			})
		},
	}
}

func formatCheckOut(t *time.Time) string {
	if t == nil {
		return "working"
	}
	return t.Local().Format(timeLayout)
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show hours and overtime for the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(cmd.Context(), func(sess *clocksdk.Session) error {
				sum, err := sess.WeeklySummary(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Week of %s\n", sum.WeekStart.Format("Mon 02 Jan 2006"))
				fmt.Fprintf(c.out, "Worked:     %s (%.0f%%)\n", sum.Weekly, sum.ProgressPercent)
				fmt.Fprintf(c.out, "Contracted: %s\n", sum.Contracted)
				fmt.Fprintf(c.out, "Overtime:   %s\n", sum.Overtime)
				if sum.Working && sum.Current != nil {
					fmt.Fprintf(c.out, "On shift since %s\n", sum.Current.CheckIn.Local().Format(timeLayout))
				}
				return nil
			})
		},
	}
}
