package cli

import (
	"fmt"
	"io"
	"route-safety-service/internal/domain"
	"route-safety-service/internal/services"
	"strconv"

	"github.com/spf13/cobra"
)

func newBreaksCmd() *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:   "breaks [hours]",
		Short: "Show the mandatory breaks for a number of driving hours",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				h, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid hours %q: %w", args[0], err)
				}
				hours = h
			} else if !cmd.Flags().Changed("hours") {
				return fmt.Errorf("driving hours required: pass an argument or --hours")
			}

			schedule, err := services.ComputeBreakSchedule(hours)
			if err != nil {
				return err
			}

			printHeader(cmd.OutOrStdout(), fmt.Sprintf("Breaks for %s of driving", services.FormatHoursMinutes(hours)))
			printSchedule(cmd.OutOrStdout(), schedule)
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Total driving hours")
	return cmd
}

func printSchedule(w io.Writer, s domain.BreakSchedule) {
	printField(w, "45-minute breaks", s.ShortBreakCount)
	printField(w, "11-hour rests", s.DailyRestCount)
	printField(w, "Break time", services.FormatHoursMinutes(float64(s.TotalBreakMinutes)/60))
	printField(w, "Summary", s.Description)
}
