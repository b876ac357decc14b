package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
	"github.com/repsboard/payroll-backend/internal/pkg/export"
)

type BatchHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Revert(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type batchHandlerImpl struct {
	batchService batch.BatchService
}

func NewBatchHandler(batchService batch.BatchService) BatchHandler {
	return &batchHandlerImpl{batchService: batchService}
}

func (h *batchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.batchService.ListBatches(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *batchHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req batch.GenerateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.batchService.GenerateBatch(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment batch generated", result)
}

func (h *batchHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.batchService.GetBatch(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *batchHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.batchService.MarkBatchPaid(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Affected == 0 {
		response.SuccessWithMessage(w, "Batch is already paid", result)
		return
	}
	response.SuccessWithMessage(w, "Batch marked as paid", result)
}

func (h *batchHandlerImpl) Revert(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.batchService.RevertBatch(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Affected == 0 {
		response.SuccessWithMessage(w, "Batch has no pending records to revert", result)
		return
	}
	response.SuccessWithMessage(w, "Batch reverted to unpaid", result)
}

// Export renders into a buffer first so a failure can still be reported as JSON.
func (h *batchHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	format, err := batch.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	batchID := chi.URLParam(r, "id")
	var buf bytes.Buffer
	if err := h.batchService.ExportBatch(r.Context(), p, batchID, format, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	contentType := export.ContentTypeCSV
	if format == batch.ExportFormatXLSX {
		contentType = export.ContentTypeXLSX
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batchID+"."+string(format)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
