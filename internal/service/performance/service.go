package performance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/pkg/compensation"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PerformanceServiceImpl struct {
	tx              database.Transactor
	performanceRepo performance.PerformanceRepository
}

func NewPerformanceService(tx database.Transactor, performanceRepo performance.PerformanceRepository) performance.PerformanceService {
	return &PerformanceServiceImpl{
		tx:              tx,
		performanceRepo: performanceRepo,
	}
}

func (s *PerformanceServiceImpl) ListAgentNames(ctx context.Context, principal user.Principal) ([]string, error) {
	if err := principal.Require(user.PermissionPerformanceManage); err != nil {
		return nil, err
	}

	names, err := s.performanceRepo.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	sort.Strings(unique)
	return unique, nil
}

func (s *PerformanceServiceImpl) UpdateAgentPerformance(ctx context.Context, principal user.Principal, req performance.UpdatePerformanceRequest) error {
	if err := principal.Require(user.PermissionPerformanceManage); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	affected, err := s.performanceRepo.UpdateByFullName(ctx, req.FullName, performance.Metrics{
		Breaks:        req.Breaks,
		ZoomMeetings:  req.ZoomMeetings,
		RatePerHour:   compensation.RoundRate(req.RatePerHour),
		ZoomScheduled: req.ZoomScheduled,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return performance.ErrAgentNotFound
	}

	slog.Info("Agent performance updated", "full_name", req.FullName, "rows", affected)
	return nil
}

// Import inserts every row in one transaction; a bad row aborts the whole file.
func (s *PerformanceServiceImpl) Import(ctx context.Context, principal user.Principal, rows []performance.ImportRow) (int, error) {
	if err := principal.Require(user.PermissionPerformanceManage); err != nil {
		return 0, err
	}

	parsed := make([]performance.AgentPerformance, 0, len(rows))
	var errs validator.ValidationErrors
	for i, row := range rows {
		line := validator.Itoa(i + 2) // header is line 1
		name := strings.TrimSpace(row.FullName)
		if name == "" {
			errs = append(errs, validator.ValidationError{Field: "line " + line, Message: "full_name is required"})
			continue
		}
		if row.Breaks < 0 || row.ZoomMeetings < 0 || row.ZoomScheduled < 0 {
			errs = append(errs, validator.ValidationError{Field: "line " + line, Message: "values must be non-negative"})
			continue
		}

		var rate *decimal.Decimal
		if strings.TrimSpace(row.RatePerHour) != "" {
			d, err := decimal.NewFromString(strings.TrimSpace(row.RatePerHour))
			if err != nil || d.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: "line " + line, Message: "rate_per_hour must be a non-negative number"})
				continue
			}
			d = compensation.RoundRate(d)
			rate = &d
		}

		breaks, meetings, scheduled := row.Breaks, row.ZoomMeetings, row.ZoomScheduled
		parsed = append(parsed, performance.AgentPerformance{
			FullName:      name,
			Breaks:        &breaks,
			ZoomMeetings:  &meetings,
			RatePerHour:   rate,
			ZoomScheduled: &scheduled,
		})
	}
	if len(errs) > 0 {
		return 0, errs
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, p := range parsed {
			if _, err := s.performanceRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("failed to import %s: %w", p.FullName, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Agent performance imported", "rows", len(parsed))
	return len(parsed), nil
}
