package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/spf13/cobra"
)

func newBatchCommand(open ServicesFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate, settle and export payment batches",
	}

	var req batch.GenerateBatchRequest
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Group unpaid records into a new pending batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := services.Batches.GenerateBatch(cmd.Context(), user.System(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	gf := generate.Flags()
	gf.StringSliceVar(&req.EmployeeIDs, "employee", nil, "only records of these employee ids")
	gf.StringSliceVar(&req.RecordIDs, "record", nil, "only these record ids")
	gf.StringVar(&req.DateFrom, "from", "", "first work date (YYYY-MM-DD)")
	gf.StringVar(&req.DateTo, "to", "", "last work date (YYYY-MM-DD)")
	gf.StringVar(&req.Period, "period", "", "date preset such as this_week or last_month")

	paid := &cobra.Command{
		Use:   "paid <batch-id>",
		Short: "Mark every pending record of a batch as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := services.Batches.MarkBatchPaid(cmd.Context(), user.System(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	revert := &cobra.Command{
		Use:   "revert <batch-id>",
		Short: "Return the pending records of a batch to unpaid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := services.Batches.RevertBatch(cmd.Context(), user.System(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List batches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			batches, err := services.Batches.ListBatches(cmd.Context(), user.System())
			if err != nil {
				return err
			}
			return printBatchTable(cmd.OutOrStdout(), batches)
		},
	}

	var format, out string
	exportCmd := &cobra.Command{
		Use:   "export <batch-id>",
		Short: "Write the records of a batch as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := batch.ParseExportFormat(format)
			if err != nil {
				return err
			}

			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			path := out
			if path == "" {
				path = args[0] + "." + string(exportFormat)
			}

			var w io.Writer = cmd.OutOrStdout()
			if path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}

			if err := services.Batches.ExportBatch(cmd.Context(), user.System(), args[0], exportFormat, w); err != nil {
				return err
			}
			if path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVar(&out, "out", "", "output file, '-' for stdout (default <batch-id>.<format>)")

	cmd.AddCommand(generate, paid, revert, list, exportCmd)
	return cmd
}

func printBatchTable(w io.Writer, batches []batch.BatchSummaryResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BATCH\tSTATUS\tRECORDS\tREPS\tTOTAL\tFROM\tTO")
	for _, b := range batches {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			b.ID, b.Status, b.RecordCount, b.EmployeeCount, b.TotalAmount.StringFixed(2), b.DateFrom, b.DateTo)
	}
	return tw.Flush()
}
