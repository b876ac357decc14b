package middleware

import (
	"net/http"

	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromRequest(r)
		if !ok {
			response.HandleError(w, user.ErrUnauthenticated)
			return
		}

		if !principal.IsAdmin() {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
