// Package app assembles repositories and services for the configured store.
package app

import (
	"context"
	"fmt"

	"github.com/repsboard/payroll-backend/internal/config"
	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/dashboard"
	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/repsboard/payroll-backend/internal/repository/postgresql"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	authService "github.com/repsboard/payroll-backend/internal/service/auth"
	batchService "github.com/repsboard/payroll-backend/internal/service/batch"
	candidateService "github.com/repsboard/payroll-backend/internal/service/candidate"
	dashboardService "github.com/repsboard/payroll-backend/internal/service/dashboard"
	performanceService "github.com/repsboard/payroll-backend/internal/service/performance"
	workRecordService "github.com/repsboard/payroll-backend/internal/service/workrecord"
)

type Repositories struct {
	Tx          database.Transactor
	WorkRecords workrecord.WorkRecordRepository
	Candidates  candidate.CandidateRepository
	Performance performance.PerformanceRepository

	close func()
}

func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories connects to the configured driver and applies its schema.
func OpenRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Repositories{
			Tx:          postgresql.NewTransactor(db),
			WorkRecords: postgresql.NewWorkRecordRepository(db),
			Candidates:  postgresql.NewCandidateRepository(db),
			Performance: postgresql.NewPerformanceRepository(db),
			close:       db.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return SQLiteRepositories(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// SQLiteRepositories wraps an open SQLite database. Close closes db.
func SQLiteRepositories(db *database.SQLiteDB) *Repositories {
	return &Repositories{
		Tx:          sqlite.NewTransactor(db),
		WorkRecords: sqlite.NewWorkRecordRepository(db),
		Candidates:  sqlite.NewCandidateRepository(db),
		Performance: sqlite.NewPerformanceRepository(db),
		close:       func() { db.Close() },
	}
}

type Services struct {
	Auth        auth.AuthService
	WorkRecords workrecord.WorkRecordService
	Batches     batch.BatchService
	Candidates  candidate.CandidateService
	Performance performance.PerformanceService
	Dashboard   dashboard.DashboardService
}

func NewServices(repos *Repositories, jwtService jwt.Service, events sse.Publisher, adminPasscode string) Services {
	return Services{
		Auth:        authService.NewAuthService(repos.Candidates, jwtService, adminPasscode),
		WorkRecords: workRecordService.NewWorkRecordService(repos.Tx, repos.WorkRecords, events),
		Batches:     batchService.NewBatchService(repos.Tx, repos.WorkRecords, events),
		Candidates:  candidateService.NewCandidateService(repos.Tx, repos.Candidates, repos.WorkRecords, events),
		Performance: performanceService.NewPerformanceService(repos.Tx, repos.Performance),
		Dashboard:   dashboardService.NewDashboardService(repos.WorkRecords, repos.Candidates),
	}
}
