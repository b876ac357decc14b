package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/pkg/export"
	"github.com/spf13/cobra"
)

func newPerformanceCommand(open ServicesFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Agent performance data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Import agent performance rows",
		Long: `Reads rows with the columns full_name, breaks, zoom_meetings, rate_per_hour
and zoom_scheduled. Files ending in .xlsx are read from their first sheet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readPerformanceRows(args[0])
			if err != nil {
				return err
			}

			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := services.Performance.Import(cmd.Context(), user.System(), rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows\n", n)
			return nil
		},
	})

	return cmd
}

func readPerformanceRows(path string) ([]performance.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []performance.ImportRow
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = export.ReadXLSX(f, &rows)
	} else {
		err = export.ReadCSV(f, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
