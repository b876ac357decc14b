package auth

import (
	"context"

	"github.com/repsboard/payroll-backend/internal/domain/user"
)

type AuthService interface {
	AdminLogin(ctx context.Context, req AdminLoginRequest) (TokenResponse, error)
	RepLogin(ctx context.Context, req RepLoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, principal user.Principal) (MeResponse, error)
	IssueSSEToken(ctx context.Context, principal user.Principal) (SSETokenResponse, error)
}
