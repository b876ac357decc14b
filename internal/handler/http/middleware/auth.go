package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
)

type principalKey struct{}

// AuthRequired accepts verified, unrevoked access tokens and stores the caller's principal
// in the request context. It runs after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			principal, err := jwt.PrincipalFromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// PrincipalFromRequest returns the caller stored by AuthRequired.
func PrincipalFromRequest(r *http.Request) (user.Principal, bool) {
	principal, ok := r.Context().Value(principalKey{}).(user.Principal)
	return principal, ok
}

// WithPrincipal returns a copy of ctx carrying principal.
func WithPrincipal(ctx context.Context, principal user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}
