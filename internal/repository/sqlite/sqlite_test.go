package sqlite_test

import (
	"context"
	"testing"

	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.SQLiteDB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createCandidate(t *testing.T, repo candidate.CandidateRepository, name string) candidate.Candidate {
	t.Helper()
	c, err := repo.Create(context.Background(), candidate.Candidate{Name: name, Username: candidate.UsernameFromName(name)})
	require.NoError(t, err)
	return c
}

func TestWorkRecordRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	candidates := sqlite.NewCandidateRepository(db)
	records := sqlite.NewWorkRecordRepository(db)

	jane := createCandidate(t, candidates, "Jane Doe")

	inserted, err := records.Insert(ctx, workrecord.WorkRecord{
		EmployeeID:  jane.ID,
		Date:        "2024-05-06",
		TalkTime:    "01:00:00",
		WaitTime:    "00:00:00",
		RatePerHour: decimal.RequireFromString("10"),
		SetsAdded:   1,
		MoesTotal:   decimal.RequireFromString("7"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, workrecord.PaymentStatusUnpaid, inserted.PaymentStatus)

	got, err := records.GetByID(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", got.Date)
	assert.True(t, decimal.RequireFromString("10").Equal(got.RatePerHour))
	assert.True(t, decimal.RequireFromString("7").Equal(got.MoesTotal))
	assert.Nil(t, got.PaymentBatchID)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Jane Doe", *got.EmployeeName)

	found, err := records.Find(ctx, workrecord.Filter{EmployeeIDs: []string{jane.ID}, DateFrom: "2024-05-01", DateTo: "2024-05-31"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = records.Find(ctx, workrecord.Filter{Statuses: []workrecord.PaymentStatus{workrecord.PaymentStatusPaid}})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestWorkRecordRepository_Constraints(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	candidates := sqlite.NewCandidateRepository(db)
	records := sqlite.NewWorkRecordRepository(db)

	jane := createCandidate(t, candidates, "Jane Doe")
	rec := workrecord.WorkRecord{EmployeeID: jane.ID, Date: "2024-05-06", TalkTime: "00:00:00", WaitTime: "00:00:00"}

	_, err := records.Insert(ctx, rec)
	require.NoError(t, err)

	_, err = records.Insert(ctx, rec)
	assert.ErrorIs(t, err, workrecord.ErrDuplicateWorkRecord)

	rec.EmployeeID = "missing"
	_, err = records.Insert(ctx, rec)
	assert.ErrorIs(t, err, workrecord.ErrEmployeeReferenceGone)
}

func TestWorkRecordRepository_UpdateAndBulkUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	candidates := sqlite.NewCandidateRepository(db)
	records := sqlite.NewWorkRecordRepository(db)

	jane := createCandidate(t, candidates, "Jane Doe")
	a, err := records.Insert(ctx, workrecord.WorkRecord{EmployeeID: jane.ID, Date: "2024-05-06"})
	require.NoError(t, err)
	b, err := records.Insert(ctx, workrecord.WorkRecord{EmployeeID: jane.ID, Date: "2024-05-07"})
	require.NoError(t, err)

	talk := "02:00:00"
	updated, err := records.Update(ctx, a.ID, workrecord.Patch{TalkTime: &talk})
	require.NoError(t, err)
	assert.Equal(t, "02:00:00", updated.TalkTime)

	_, err = records.Update(ctx, "missing", workrecord.Patch{TalkTime: &talk})
	assert.ErrorIs(t, err, workrecord.ErrWorkRecordNotFound)

	batchID := "BATCH-20240508000000-abc123"
	pending := workrecord.PaymentStatusPending
	affected, err := records.BulkUpdate(ctx,
		workrecord.Filter{IDs: []string{a.ID, b.ID}, Statuses: []workrecord.PaymentStatus{workrecord.PaymentStatusUnpaid}},
		workrecord.Patch{PaymentStatus: &pending, PaymentBatchID: &batchID},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	// Second run matches nothing because the status guard no longer holds.
	affected, err = records.BulkUpdate(ctx,
		workrecord.Filter{IDs: []string{a.ID, b.ID}, Statuses: []workrecord.PaymentStatus{workrecord.PaymentStatusUnpaid}},
		workrecord.Patch{PaymentStatus: &pending, PaymentBatchID: &batchID},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	unpaid := workrecord.PaymentStatusUnpaid
	affected, err = records.BulkUpdate(ctx,
		workrecord.Filter{BatchID: &batchID},
		workrecord.Patch{PaymentStatus: &unpaid, ClearPaymentBatchID: true},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	got, err := records.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PaymentBatchID)

	_, err = records.BulkUpdate(ctx, workrecord.Filter{}, workrecord.Patch{PaymentStatus: &unpaid})
	assert.Error(t, err)
}

func TestWorkRecordRepository_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tx := sqlite.NewTransactor(db)
	candidates := sqlite.NewCandidateRepository(db)
	records := sqlite.NewWorkRecordRepository(db)

	jane := createCandidate(t, candidates, "Jane Doe")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := records.Insert(ctx, workrecord.WorkRecord{EmployeeID: jane.ID, Date: "2024-05-06"}); err != nil {
			return err
		}
		_, err := records.Insert(ctx, workrecord.WorkRecord{EmployeeID: jane.ID, Date: "2024-05-06"})
		return err
	})
	assert.ErrorIs(t, err, workrecord.ErrDuplicateWorkRecord)

	found, err := records.Find(ctx, workrecord.Filter{})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCandidateRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlite.NewCandidateRepository(db)

	jane := createCandidate(t, repo, "Jane Doe")
	createCandidate(t, repo, "Adam Smith")

	_, err := repo.Create(ctx, candidate.Candidate{Name: "jane doe", Username: "janedoe"})
	assert.ErrorIs(t, err, candidate.ErrUsernameExists)
	assert.EqualError(t, err, "a user with username 'janedoe' already exists")

	hash := "hash"
	require.NoError(t, repo.UpdateDetails(ctx, jane.ID, candidate.DetailsPatch{PasswordHash: &hash}))
	got, err := repo.GetByUsername(ctx, "janedoe")
	require.NoError(t, err)
	assert.True(t, got.HasAccess())

	require.NoError(t, repo.RevokeAccess(ctx, jane.ID))
	got, err = repo.GetByID(ctx, jane.ID)
	require.NoError(t, err)
	assert.False(t, got.HasAccess())

	require.NoError(t, repo.UpdateStatus(ctx, jane.ID, candidate.StatusTerminated))

	all, err := repo.List(ctx, candidate.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adam Smith", all[0].Name)

	active, err := repo.List(ctx, candidate.Filter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Adam Smith", active[0].Name)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), candidate.ErrCandidateNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", candidate.StatusWorking), candidate.ErrCandidateNotFound)
}

func TestPerformanceRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlite.NewPerformanceRepository(db)

	_, err := repo.Create(ctx, performance.AgentPerformance{FullName: "Jane Doe"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, performance.AgentPerformance{FullName: ""})
	require.NoError(t, err)

	names, err := repo.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, names)

	affected, err := repo.UpdateByFullName(ctx, "Jane Doe", performance.Metrics{Breaks: 2, RatePerHour: decimal.RequireFromString("12.5")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.UpdateByFullName(ctx, "Nobody", performance.Metrics{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}
