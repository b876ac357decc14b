package cli

import (
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	workRecordService "github.com/repsboard/payroll-backend/internal/service/workrecord"
	"github.com/spf13/cobra"
)

func newPayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Payment calculations",
	}

	var req workrecord.PreviewRequest
	preview := &cobra.Command{
		Use:   "preview",
		Short: "Preview base pay and reps bonus for one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Preview reads no stored data.
			svc := workRecordService.NewWorkRecordService(nil, nil, nil)
			return printJSON(cmd.OutOrStdout(), svc.Preview(req))
		},
	}
	f := preview.Flags()
	f.StringVar(&req.TalkTime, "talk", "00:00:00", "talk time as HH:MM:SS")
	f.StringVar(&req.WaitTime, "wait", "00:00:00", "wait time as HH:MM:SS")
	f.Float64Var(&req.RatePerHour, "rate", 0, "hourly rate")
	f.Float64Var(&req.SetsAdded, "sets", 0, "sets added")
	f.Float64Var(&req.BreakMinutes, "breaks", 0, "break minutes")
	f.Float64Var(&req.MeetingMinutes, "meetings", 0, "meeting minutes")
	f.Float64Var(&req.MorningMeetingMinutes, "morning", 0, "morning meeting minutes")
	f.BoolVar(&req.IsTraining, "training", false, "mark the session as training (no bonus)")

	cmd.AddCommand(preview)
	return cmd
}
