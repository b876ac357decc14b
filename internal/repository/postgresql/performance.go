package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

type performanceRepositoryImpl struct {
	db *database.DB
}

func NewPerformanceRepository(db *database.DB) performance.PerformanceRepository {
	return &performanceRepositoryImpl{db: db}
}

func (r *performanceRepositoryImpl) ListNames(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT full_name FROM agent_performance_sync WHERE full_name <> ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan agent name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *performanceRepositoryImpl) UpdateByFullName(ctx context.Context, fullName string, m performance.Metrics) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE agent_performance_sync
		SET breaks = $1, zoom_meetings = $2, rate_per_hour = $3, zoom_scheduled = $4
		WHERE full_name = $5
	`
	tag, err := q.Exec(ctx, query, m.Breaks, m.ZoomMeetings, m.RatePerHour, m.ZoomScheduled, fullName)
	if err != nil {
		return 0, fmt.Errorf("failed to update performance of %s: %w", fullName, err)
	}
	return tag.RowsAffected(), nil
}

func (r *performanceRepositoryImpl) Create(ctx context.Context, row performance.AgentPerformance) (performance.AgentPerformance, error) {
	q := GetQuerier(ctx, r.db)

	if row.ID == "" {
		row.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO agent_performance_sync (id, full_name, breaks, zoom_meetings, rate_per_hour, zoom_scheduled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query, row.ID, row.FullName, row.Breaks, row.ZoomMeetings, row.RatePerHour, row.ZoomScheduled).
		Scan(&row.CreatedAt)
	if err != nil {
		return performance.AgentPerformance{}, fmt.Errorf("failed to create performance row: %w", err)
	}
	return row, nil
}
