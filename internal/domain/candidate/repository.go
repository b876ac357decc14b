package candidate

import "context"

type Filter struct {
	ActiveOnly bool
}

// DetailsPatch holds the optional login and display fields. Nil fields are left alone.
type DetailsPatch struct {
	Username     *string
	PasswordHash *string
	Alias        *string
}

type CandidateRepository interface {
	Create(ctx context.Context, c Candidate) (Candidate, error)
	GetByID(ctx context.Context, id string) (Candidate, error)
	GetByUsername(ctx context.Context, username string) (Candidate, error)
	List(ctx context.Context, filter Filter) ([]Candidate, error)
	UpdateDetails(ctx context.Context, id string, patch DetailsPatch) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	// RevokeAccess clears the password so the rep can no longer log in.
	RevokeAccess(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
