package http

import (
	"net/http"
	"strings"

	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/handler/http/middleware"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
)

// principal writes a 401 and reports false when the request carries no caller.
func principal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, ok := middleware.PrincipalFromRequest(r)
	if !ok {
		response.HandleError(w, user.ErrUnauthenticated)
		return user.Principal{}, false
	}
	return p, true
}

// queryList accepts both repeated (?employee_id=a&employee_id=b) and comma separated values.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
