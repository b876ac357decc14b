package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
	"github.com/repsboard/payroll-backend/internal/pkg/export"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/shopspring/decimal"
)

type BatchServiceImpl struct {
	tx         database.Transactor
	recordRepo workrecord.WorkRecordRepository
	events     sse.Publisher
	now        func() time.Time
}

func NewBatchService(
	tx database.Transactor,
	recordRepo workrecord.WorkRecordRepository,
	events sse.Publisher,
) batch.BatchService {
	return &BatchServiceImpl{
		tx:         tx,
		recordRepo: recordRepo,
		events:     events,
		now:        time.Now,
	}
}

// ========== TRANSITIONS ==========

// GenerateBatch moves every matching unpaid record to pending under a fresh batch id.
// The update is guarded on the unpaid status, so records taken by a concurrent
// generation make the whole batch roll back instead of being split.
func (s *BatchServiceImpl) GenerateBatch(ctx context.Context, principal user.Principal, req batch.GenerateBatchRequest) (batch.GenerateBatchResponse, error) {
	if err := principal.Require(user.PermissionBatchManage); err != nil {
		return batch.GenerateBatchResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return batch.GenerateBatchResponse{}, err
	}

	now := s.now()
	batchID := batch.NewID(now)
	filter := req.Filter(now)

	var resp batch.GenerateBatchResponse
	var employeeIDs []string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		eligible, err := s.recordRepo.Find(ctx, filter)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return batch.ErrNoEligibleRecords
		}

		ids := make([]string, len(eligible))
		total := decimal.Zero
		for i, r := range eligible {
			ids[i] = r.ID
			total = total.Add(r.TotalPayment())
			employeeIDs = append(employeeIDs, r.EmployeeID)
		}

		pending := workrecord.PaymentStatusPending
		affected, err := s.recordRepo.BulkUpdate(ctx,
			workrecord.Filter{IDs: ids, Statuses: []workrecord.PaymentStatus{workrecord.PaymentStatusUnpaid}},
			workrecord.Patch{PaymentStatus: &pending, PaymentBatchID: &batchID},
		)
		if err != nil {
			return err
		}
		switch {
		case affected == 0:
			return batch.ErrZeroRowsAffected
		case affected < int64(len(ids)):
			return batch.ErrBatchConflict
		}

		resp = batch.GenerateBatchResponse{BatchID: batchID, RecordCount: len(ids), TotalAmount: total}
		return nil
	})
	if err != nil {
		if errors.Is(err, batch.ErrBatchConflict) || errors.Is(err, batch.ErrZeroRowsAffected) {
			slog.Warn("Batch generation aborted", "batch_id", batchID, "error", err)
		}
		return batch.GenerateBatchResponse{}, err
	}

	slog.Info("Payment batch generated",
		"batch_id", resp.BatchID,
		"record_count", resp.RecordCount,
		"total_amount", resp.TotalAmount.StringFixed(2))

	s.publish(employeeIDs, batchID, workrecord.PaymentStatusPending)
	return resp, nil
}

// MarkBatchPaid moves the pending members of a batch to paid. Calling it again
// on a paid batch changes nothing and reports zero affected records.
func (s *BatchServiceImpl) MarkBatchPaid(ctx context.Context, principal user.Principal, batchID string) (batch.TransitionResponse, error) {
	paid := workrecord.PaymentStatusPaid
	return s.transition(ctx, principal, batchID, paid, workrecord.Patch{PaymentStatus: &paid})
}

// RevertBatch moves the pending members of a batch back to unpaid and detaches them.
// Paid members are left alone.
func (s *BatchServiceImpl) RevertBatch(ctx context.Context, principal user.Principal, batchID string) (batch.TransitionResponse, error) {
	unpaid := workrecord.PaymentStatusUnpaid
	return s.transition(ctx, principal, batchID, unpaid, workrecord.Patch{PaymentStatus: &unpaid, ClearPaymentBatchID: true})
}

func (s *BatchServiceImpl) transition(ctx context.Context, principal user.Principal, batchID string, target workrecord.PaymentStatus, patch workrecord.Patch) (batch.TransitionResponse, error) {
	if err := principal.Require(user.PermissionBatchManage); err != nil {
		return batch.TransitionResponse{}, err
	}
	if !batch.IsValidID(batchID) {
		return batch.TransitionResponse{}, batch.ErrInvalidBatchID
	}

	var affected int64
	var employeeIDs []string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		members, err := s.recordRepo.Find(ctx, workrecord.Filter{BatchID: &batchID})
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return batch.ErrBatchNotFound
		}
		for _, m := range members {
			if m.PaymentStatus.Is(workrecord.PaymentStatusPending) {
				employeeIDs = append(employeeIDs, m.EmployeeID)
			}
		}

		affected, err = s.recordRepo.BulkUpdate(ctx,
			workrecord.Filter{BatchID: &batchID, Statuses: []workrecord.PaymentStatus{workrecord.PaymentStatusPending}},
			patch,
		)
		return err
	})
	if err != nil {
		return batch.TransitionResponse{}, err
	}

	if affected == 0 {
		slog.Info("Batch transition had nothing to do", "batch_id", batchID, "target_status", target)
	} else {
		slog.Info("Payment batch transitioned", "batch_id", batchID, "target_status", target, "affected", affected)
		s.publish(employeeIDs, batchID, target)
	}

	return batch.TransitionResponse{BatchID: batchID, Status: string(target), Affected: affected}, nil
}

// ========== VIEWS ==========

func (s *BatchServiceImpl) ListBatches(ctx context.Context, principal user.Principal) ([]batch.BatchSummaryResponse, error) {
	if err := principal.Require(user.PermissionBatchView); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.Find(ctx, workrecord.Filter{Statuses: []workrecord.PaymentStatus{
		workrecord.PaymentStatusPending, workrecord.PaymentStatusPaid,
	}})
	if err != nil {
		return nil, err
	}

	summaries := batch.Summarize(records)
	responses := make([]batch.BatchSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		responses = append(responses, batch.ToSummaryResponse(sum))
	}
	return responses, nil
}

func (s *BatchServiceImpl) GetBatch(ctx context.Context, principal user.Principal, batchID string) (batch.BatchDetailResponse, error) {
	if err := principal.Require(user.PermissionBatchView); err != nil {
		return batch.BatchDetailResponse{}, err
	}

	members, err := s.members(ctx, batchID)
	if err != nil {
		return batch.BatchDetailResponse{}, err
	}

	resp := batch.BatchDetailResponse{
		BatchSummaryResponse: batch.ToSummaryResponse(batch.Summarize(members)[0]),
		Records:              make([]workrecord.WorkRecordResponse, 0, len(members)),
	}
	for _, m := range members {
		resp.Records = append(resp.Records, workrecord.ToResponse(m))
	}
	return resp, nil
}

// ExportBatch writes one row per member record, ordered by date and employee.
func (s *BatchServiceImpl) ExportBatch(ctx context.Context, principal user.Principal, batchID string, format batch.ExportFormat, w io.Writer) error {
	if err := principal.Require(user.PermissionBatchView); err != nil {
		return err
	}

	members, err := s.members(ctx, batchID)
	if err != nil {
		return err
	}

	rows := make([]batch.ExportRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, batch.ToExportRow(m))
	}

	switch format {
	case batch.ExportFormatCSV:
		return export.WriteCSV(w, rows)
	case batch.ExportFormatXLSX:
		return export.WriteXLSX(w, "Batch", rows)
	}
	return batch.ErrUnsupportedFormat
}

func (s *BatchServiceImpl) members(ctx context.Context, batchID string) ([]workrecord.WorkRecord, error) {
	if !batch.IsValidID(batchID) {
		return nil, batch.ErrInvalidBatchID
	}
	members, err := s.recordRepo.Find(ctx, workrecord.Filter{BatchID: &batchID})
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	if len(members) == 0 {
		return nil, batch.ErrBatchNotFound
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Date != members[j].Date {
			return members[i].Date < members[j].Date
		}
		return members[i].EmployeeID < members[j].EmployeeID
	})
	return members, nil
}

func (s *BatchServiceImpl) publish(employeeIDs []string, batchID string, status workrecord.PaymentStatus) {
	if s.events == nil {
		return
	}
	s.events.PublishToMany(append(employeeIDs, user.AdminID), sse.Event{
		Event: sse.EventBatchStatusChanged,
		Data:  map[string]string{"batch_id": batchID, "status": string(status)},
	})
}
