// Package cli implements payrollctl, the operator command line for the payroll store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/repsboard/payroll-backend/internal/app"
	"github.com/repsboard/payroll-backend/internal/config"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/logger"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/spf13/cobra"
)

// ServicesFunc opens the services backing store-bound commands. The returned
// func releases the store.
type ServicesFunc func(ctx context.Context) (app.Services, func(), error)

// NewRootCommand builds the command tree. Commands that read or write payroll
// data call open lazily, so duration and pay commands work without a database.
func NewRootCommand(open ServicesFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "payrollctl",
		Short: "Operate the reps payroll store from the command line",
		Long: `payrollctl converts durations, previews pay and manages payment batches
and performance data using the same configuration as the API server.
Store-bound commands act as the administrator.`,
		SilenceUsage: true,
	}

	root.AddCommand(newDurationCommand())
	root.AddCommand(newPayCommand())
	root.AddCommand(newBatchCommand(open))
	root.AddCommand(newPerformanceCommand(open))
	return root
}

// Execute is the entry point called from main.
func Execute(version string) {
	root := NewRootCommand(OpenFromConfig(version))
	root.Version = version
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// OpenFromConfig loads the environment configuration and opens the configured store.
func OpenFromConfig(version string) ServicesFunc {
	return func(ctx context.Context) (app.Services, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return app.Services{}, nil, fmt.Errorf("load config: %w", err)
		}

		slog.SetDefault(logger.NewWithWriter(os.Stderr, logger.Options{
			App:     "payrollctl",
			Version: version,
			Env:     cfg.App.Env,
			Level:   cfg.App.LogLevel,
		}))

		repos, err := app.OpenRepositories(ctx, cfg)
		if err != nil {
			return app.Services{}, nil, err
		}
		jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		return app.NewServices(repos, jwtService, sse.NewHub(), cfg.Admin.Passcode), repos.Close, nil
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
