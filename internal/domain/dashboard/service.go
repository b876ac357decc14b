package dashboard

import (
	"context"

	"github.com/repsboard/payroll-backend/internal/domain/user"
)

type DashboardService interface {
	// UnpaidSummary aggregates every record not yet paid. Admin only.
	UnpaidSummary(ctx context.Context, principal user.Principal, req UnpaidSummaryRequest) (UnpaidSummaryResponse, error)

	// RepSummary aggregates the calling rep's own records.
	RepSummary(ctx context.Context, principal user.Principal) (RepSummaryResponse, error)
}
