package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	candidateRepo candidate.CandidateRepository
	jwtService    jwt.Service
	adminPasscode string
}

func NewAuthService(candidateRepo candidate.CandidateRepository, jwtService jwt.Service, adminPasscode string) auth.AuthService {
	return &AuthServiceImpl{
		candidateRepo: candidateRepo,
		jwtService:    jwtService,
		adminPasscode: adminPasscode,
	}
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.AdminLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if a.adminPasscode == "" || subtle.ConstantTimeCompare([]byte(req.Passcode), []byte(a.adminPasscode)) != 1 {
		slog.Warn("Admin login rejected")
		return auth.TokenResponse{}, auth.ErrInvalidPasscode
	}

	principal := user.Principal{ID: user.AdminID, Name: "Administrator", Role: user.RoleAdmin}
	return a.issue(principal)
}

// RepLogin implements auth.AuthService.
func (a *AuthServiceImpl) RepLogin(ctx context.Context, req auth.RepLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	rep, err := a.candidateRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, candidate.ErrCandidateNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get candidate by username: %w", err)
	}

	if !rep.HasAccess() {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*rep.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	principal := user.Principal{ID: rep.ID, Name: rep.DisplayName(), Role: user.RoleRep}
	return a.issue(principal)
}

func (a *AuthServiceImpl) issue(principal user.Principal) (auth.TokenResponse, error) {
	token, expiresAt, err := a.jwtService.GenerateAccessToken(principal)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("User logged in", "user_id", principal.ID, "role", principal.Role)
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt - time.Now().Unix(),
		User:        toMe(principal),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}

	expiresAt, err := a.jwtService.ExpiresAt(token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	if a.jwtService.IsTokenRevoked(token) {
		return auth.ErrTokenRevoked
	}

	a.jwtService.RevokeToken(token, expiresAt)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, principal user.Principal) (auth.MeResponse, error) {
	if principal.ID == "" {
		return auth.MeResponse{}, user.ErrUnauthenticated
	}
	return toMe(principal), nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context, principal user.Principal) (auth.SSETokenResponse, error) {
	if err := principal.Require(user.PermissionEventsSubscribe); err != nil {
		return auth.SSETokenResponse{}, err
	}

	token, expiresIn, err := a.jwtService.GenerateSSEToken(principal.ID)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: int64(expiresIn)}, nil
}

func toMe(p user.Principal) auth.MeResponse {
	return auth.MeResponse{ID: p.ID, Name: p.Name, Role: string(p.Role)}
}
