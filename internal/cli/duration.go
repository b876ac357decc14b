package cli

import (
	"fmt"
	"strconv"

	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
	"github.com/spf13/cobra"
)

func newDurationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Convert between HH:MM:SS and seconds",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "parse <HH:MM:SS>",
		Short: "Print the number of seconds in a duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), timecodec.ParseDuration(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "format <seconds>",
		Short: "Print seconds as HH:MM:SS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("seconds must be a number: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), timecodec.FormatSecondsFloat(seconds))
			return nil
		},
	})

	return cmd
}
