package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
)

type WorkRecordHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
}

type workRecordHandlerImpl struct {
	workRecordService workrecord.WorkRecordService
}

func NewWorkRecordHandler(workRecordService workrecord.WorkRecordService) WorkRecordHandler {
	return &workRecordHandlerImpl{workRecordService: workRecordService}
}

// ========== READ ==========

func (h *workRecordHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := workrecord.ListWorkRecordsRequest{
		EmployeeIDs: queryList(r, "employee_id"),
		DateFrom:    q.Get("date_from"),
		DateTo:      q.Get("date_to"),
		Period:      q.Get("period"),
		Status:      q.Get("status"),
		BatchID:     q.Get("batch_id"),
	}

	result, err := h.workRecordService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *workRecordHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.workRecordService.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== WRITE ==========

// Create merges into the record of the same employee and day when one exists.
func (h *workRecordHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req workrecord.SaveWorkRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = ""

	result, err := h.workRecordService.Save(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Action == workrecord.ActionCreated {
		response.Created(w, "Work record created", result)
		return
	}
	response.SuccessWithMessage(w, "Work record merged into the existing day", result)
}

func (h *workRecordHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req workrecord.SaveWorkRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.workRecordService.Save(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work record updated", result)
}

func (h *workRecordHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.workRecordService.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work record deleted", nil)
}

// ========== PREVIEW ==========

// Preview recomputes pay while a form is being filled in. Fields that do not parse
// as numbers make the affected amounts zero instead of failing the request.
func (h *workRecordHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	training, _ := strconv.ParseBool(q.Get("is_training"))

	req := workrecord.PreviewRequest{
		TalkTime:              q.Get("talk_time"),
		WaitTime:              q.Get("wait_time"),
		RatePerHour:           looseFloat(q.Get("rate_per_hour")),
		SetsAdded:             looseFloat(q.Get("sets_added")),
		BreakMinutes:          looseFloat(q.Get("break_minutes")),
		MeetingMinutes:        looseFloat(q.Get("meeting_minutes")),
		MorningMeetingMinutes: looseFloat(q.Get("morning_meetings")),
		IsTraining:            training,
	}

	response.Success(w, h.workRecordService.Preview(req))
}

// looseFloat treats a blank field as zero and anything unparsable as NaN.
func looseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
