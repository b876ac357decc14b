package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
)

// TokenJobs keeps the revoked token list from growing without bound.
type TokenJobs struct {
	jwtService jwt.Service
	now        func() time.Time
}

func NewTokenJobs(jwtService jwt.Service) *TokenJobs {
	return &TokenJobs{jwtService: jwtService, now: time.Now}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_revoked_tokens", 15*time.Minute, j.PruneRevokedTokens)
}

func (j *TokenJobs) PruneRevokedTokens(ctx context.Context) error {
	pruned := j.jwtService.PruneRevoked(j.now())
	if pruned > 0 {
		slog.Info("Cron: Pruned expired revoked tokens", "count", pruned)
	}
	return nil
}

// BatchJobs reports payment batches that have been pending for too long.
type BatchJobs struct {
	recordRepo workrecord.WorkRecordRepository
	events     sse.Publisher
	staleAfter time.Duration
	now        func() time.Time
}

func NewBatchJobs(recordRepo workrecord.WorkRecordRepository, events sse.Publisher, staleAfter time.Duration) *BatchJobs {
	return &BatchJobs{
		recordRepo: recordRepo,
		events:     events,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func (j *BatchJobs) RegisterJobs(scheduler *Scheduler) {
	if j.staleAfter <= 0 {
		slog.Info("Cron: Stale batch report disabled")
		return
	}
	scheduler.AddJob("report_stale_batches", 1*time.Hour, j.ReportStaleBatches)
}

func (j *BatchJobs) ReportStaleBatches(ctx context.Context) error {
	_, err := j.staleBatches(ctx)
	return err
}

// staleBatches logs and publishes every stale batch and returns their ids.
func (j *BatchJobs) staleBatches(ctx context.Context) ([]string, error) {
	pending, err := j.recordRepo.Find(ctx, workrecord.Filter{
		Statuses: []workrecord.PaymentStatus{workrecord.PaymentStatusPending},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pending records: %w", err)
	}

	now := j.now()
	var stale []string
	for _, s := range batch.Summarize(pending) {
		if !s.IsStale(now, j.staleAfter) {
			continue
		}
		stale = append(stale, s.ID)
		slog.Warn("Cron: Payment batch pending too long",
			"batch_id", s.ID,
			"record_count", s.RecordCount,
			"total_amount", s.TotalAmount.StringFixed(2),
			"pending_for", now.Sub(s.CreatedAt).Round(time.Minute))

		if j.events != nil {
			j.events.Publish(user.AdminID, sse.Event{
				Event: sse.EventBatchStale,
				Data:  batch.ToSummaryResponse(s),
			})
		}
	}

	if len(stale) == 0 {
		slog.Debug("Cron: No stale payment batches")
	}
	return stale, nil
}
