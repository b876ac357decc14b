package performance

import (
	"context"

	"github.com/repsboard/payroll-backend/internal/domain/user"
)

type PerformanceService interface {
	// ListAgentNames returns unique agent names in sorted order.
	ListAgentNames(ctx context.Context, principal user.Principal) ([]string, error)
	UpdateAgentPerformance(ctx context.Context, principal user.Principal, req UpdatePerformanceRequest) error
	Import(ctx context.Context, principal user.Principal, rows []ImportRow) (int, error)
}
