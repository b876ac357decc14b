package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

type performanceRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewPerformanceRepository(db *database.SQLiteDB) performance.PerformanceRepository {
	return &performanceRepositoryImpl{db: db}
}

func (r *performanceRepositoryImpl) ListNames(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT full_name FROM agent_performance_sync WHERE full_name <> ''`)
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
		SET breaks = ?, zoom_meetings = ?, rate_per_hour = ?, zoom_scheduled = ?
		WHERE full_name = ?
	`
	res, err := q.ExecContext(ctx, query, m.Breaks, m.ZoomMeetings, m.RatePerHour.String(), m.ZoomScheduled, fullName)
	if err != nil {
		return 0, fmt.Errorf("failed to update performance of %s: %w", fullName, err)
	}
	return res.RowsAffected()
}

func (r *performanceRepositoryImpl) Create(ctx context.Context, row performance.AgentPerformance) (performance.AgentPerformance, error) {
	q := GetQuerier(ctx, r.db)

	if row.ID == "" {
		row.ID = uuid.Must(uuid.NewV7()).String()
	}
	row.CreatedAt = time.Now().UTC()

	var rate *string
	if row.RatePerHour != nil {
		s := row.RatePerHour.String()
		rate = &s
	}

	query := `
		INSERT INTO agent_performance_sync (id, full_name, breaks, zoom_meetings, rate_per_hour, zoom_scheduled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query, row.ID, row.FullName, row.Breaks, row.ZoomMeetings, rate, row.ZoomScheduled, row.CreatedAt)
	if err != nil {
		return performance.AgentPerformance{}, fmt.Errorf("failed to create performance row: %w", err)
	}
	return row, nil
}
