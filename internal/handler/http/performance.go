package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
)

type PerformanceHandler interface {
	ListAgents(w http.ResponseWriter, r *http.Request)
	UpdateAgent(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	performanceService performance.PerformanceService
}

func NewPerformanceHandler(performanceService performance.PerformanceService) PerformanceHandler {
	return &performanceHandlerImpl{performanceService: performanceService}
}

func (h *performanceHandlerImpl) ListAgents(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	names, err := h.performanceService.ListAgentNames(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, names)
}

func (h *performanceHandlerImpl) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req performance.UpdatePerformanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.FullName = chi.URLParam(r, "name")

	if err := h.performanceService.UpdateAgentPerformance(r.Context(), p, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Agent performance updated", nil)
}
