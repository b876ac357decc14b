package http

import (
	"net/http"

	"github.com/repsboard/payroll-backend/internal/domain/dashboard"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	// UnpaidSummary returns the admin totals of everything not yet paid
	UnpaidSummary(w http.ResponseWriter, r *http.Request)
	// RepSummary returns the calling rep's own totals
	RepSummary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// UnpaidSummary handles GET /dashboard/unpaid
func (h *dashboardHandlerImpl) UnpaidSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := dashboard.UnpaidSummaryRequest{
		EmployeeIDs: queryList(r, "employee_id"),
		DateFrom:    q.Get("date_from"),
		DateTo:      q.Get("date_to"),
		Period:      q.Get("period"),
	}

	result, err := h.dashboardService.UnpaidSummary(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RepSummary handles GET /dashboard/me
func (h *dashboardHandlerImpl) RepSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.RepSummary(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
