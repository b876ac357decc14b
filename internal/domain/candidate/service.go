package candidate

import (
	"context"

	"github.com/repsboard/payroll-backend/internal/domain/user"
)

type CandidateService interface {
	Create(ctx context.Context, principal user.Principal, req CreateCandidateRequest) (CandidateResponse, error)
	List(ctx context.Context, principal user.Principal, activeOnly bool) ([]CandidateResponse, error)
	UpdateDetails(ctx context.Context, principal user.Principal, req UpdateDetailsRequest) error
	UpdateStatus(ctx context.Context, principal user.Principal, req UpdateStatusRequest) error
	RevokeAccess(ctx context.Context, principal user.Principal, id string) error
	// Delete removes the candidate together with all of their work records.
	Delete(ctx context.Context, principal user.Principal, id string) error
}
