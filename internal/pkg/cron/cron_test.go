package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), calls.Load())

	statuses := s.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "broken", statuses[0].Name)
	assert.Equal(t, 1, statuses[0].Failures)
	assert.Equal(t, "boom", statuses[0].LastErr)
	assert.Equal(t, "count", statuses[1].Name)
	assert.Equal(t, 1, statuses[1].Runs)
	assert.Empty(t, statuses[1].LastErr)
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("signal", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
	s.Stop()
}

func TestSchedulerStopsWithParentContext(t *testing.T) {
	s := NewScheduler()
	s.AddJob("noop", time.Hour, func(ctx context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs kept running after the parent context ended")
	}
}

func TestPruneRevokedTokens(t *testing.T) {
	svc := jwt.NewJWTService("secret", "1h")
	now := time.Now()
	svc.RevokeToken("old", now.Add(-time.Hour).Unix())
	svc.RevokeToken("new", now.Add(time.Hour).Unix())

	jobs := NewTokenJobs(svc)
	jobs.now = func() time.Time { return now }
	require.NoError(t, jobs.PruneRevokedTokens(context.Background()))

	assert.False(t, svc.IsTokenRevoked("old"))
	assert.True(t, svc.IsTokenRevoked("new"))
}

func TestReportStaleBatches(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	candidates := sqlite.NewCandidateRepository(db)
	records := sqlite.NewWorkRecordRepository(db)
	jane, err := candidates.Create(ctx, candidate.Candidate{Name: "Jane Doe", Username: "janedoe", Status: candidate.StatusWorking})
	require.NoError(t, err)

	insert := func(date, batchID string, status workrecord.PaymentStatus) {
		_, err := records.Insert(ctx, workrecord.WorkRecord{
			EmployeeID: jane.ID, Date: date, TalkTime: "01:00:00", WaitTime: "00:00:00",
			PaymentStatus: status, PaymentBatchID: &batchID,
		})
		require.NoError(t, err)
	}
	insert("2024-05-01", "BATCH-20240501000000-old001", workrecord.PaymentStatusPending)
	insert("2024-05-02", "BATCH-20240510000000-new001", workrecord.PaymentStatusPending)
	insert("2024-05-03", "BATCH-20240401000000-paid01", workrecord.PaymentStatusPaid)

	hub := sse.NewHub()
	events, unsubscribe := hub.Subscribe(user.AdminID)
	defer unsubscribe()

	jobs := NewBatchJobs(records, hub, 7*24*time.Hour)
	jobs.now = func() time.Time { return time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC) }

	stale, err := jobs.staleBatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BATCH-20240501000000-old001"}, stale)

	ev := <-events
	assert.Equal(t, sse.EventBatchStale, ev.Event)
}
