package batch

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/export"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = user.System()

type fixture struct {
	svc     batch.BatchService
	records workrecord.WorkRecordRepository
	jane    candidate.Candidate
	john    candidate.Candidate
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	candidates := sqlite.NewCandidateRepository(db)
	jane, err := candidates.Create(ctx, candidate.Candidate{Name: "Jane Doe", Username: "janedoe", Status: candidate.StatusWorking})
	require.NoError(t, err)
	john, err := candidates.Create(ctx, candidate.Candidate{Name: "John Roe", Username: "johnroe", Status: candidate.StatusWorking})
	require.NoError(t, err)

	records := sqlite.NewWorkRecordRepository(db)
	return fixture{
		svc:     NewBatchService(sqlite.NewTransactor(db), records, nil),
		records: records,
		jane:    jane,
		john:    john,
	}
}

func (f fixture) record(t *testing.T, employeeID, date string) workrecord.WorkRecord {
	t.Helper()
	rec, err := f.records.Insert(context.Background(), workrecord.WorkRecord{
		EmployeeID:  employeeID,
		Date:        date,
		TalkTime:    "01:00:00",
		WaitTime:    "00:00:00",
		RatePerHour: decimal.NewFromInt(10),
		SetsAdded:   1,
		MoesTotal:   decimal.NewFromInt(7),
	})
	require.NoError(t, err)
	return rec
}

func (f fixture) statuses(t *testing.T) map[string]workrecord.WorkRecord {
	t.Helper()
	all, err := f.records.Find(context.Background(), workrecord.Filter{})
	require.NoError(t, err)
	byID := make(map[string]workrecord.WorkRecord, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	return byID
}

func TestBatchLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r1 := f.record(t, f.jane.ID, "2024-05-06")
	r2 := f.record(t, f.john.ID, "2024-05-07")

	gen, err := f.svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{})
	require.NoError(t, err)
	assert.True(t, batch.IsValidID(gen.BatchID))
	assert.Equal(t, 2, gen.RecordCount)
	assert.True(t, decimal.NewFromInt(74).Equal(gen.TotalAmount), "total %s", gen.TotalAmount)

	for _, id := range []string{r1.ID, r2.ID} {
		rec := f.statuses(t)[id]
		assert.Equal(t, workrecord.PaymentStatusPending, rec.PaymentStatus)
		require.NotNil(t, rec.PaymentBatchID)
		assert.Equal(t, gen.BatchID, *rec.PaymentBatchID)
	}

	_, err = f.svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{})
	assert.ErrorIs(t, err, batch.ErrNoEligibleRecords)

	paid, err := f.svc.MarkBatchPaid(ctx, admin, gen.BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), paid.Affected)

	again, err := f.svc.MarkBatchPaid(ctx, admin, gen.BatchID)
	require.NoError(t, err)
	assert.Zero(t, again.Affected)

	// Paid members stay paid on revert.
	reverted, err := f.svc.RevertBatch(ctx, admin, gen.BatchID)
	require.NoError(t, err)
	assert.Zero(t, reverted.Affected)
	assert.Equal(t, workrecord.PaymentStatusPaid, f.statuses(t)[r1.ID].PaymentStatus)

	list, err := f.svc.ListBatches(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "paid", list[0].Status)
	assert.Equal(t, 2, list[0].EmployeeCount)
	assert.Equal(t, "2024-05-06", list[0].DateFrom)
	assert.Equal(t, "2024-05-07", list[0].DateTo)
}

func TestRevertUndoesGenerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r1 := f.record(t, f.jane.ID, "2024-05-06")
	before := f.statuses(t)[r1.ID]

	gen, err := f.svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{EmployeeIDs: []string{f.jane.ID}})
	require.NoError(t, err)

	reverted, err := f.svc.RevertBatch(ctx, admin, gen.BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reverted.Affected)

	after := f.statuses(t)[r1.ID]
	assert.Equal(t, before.PaymentStatus, after.PaymentStatus)
	assert.Nil(t, after.PaymentBatchID)

	// The batch no longer has members.
	_, err = f.svc.MarkBatchPaid(ctx, admin, gen.BatchID)
	assert.ErrorIs(t, err, batch.ErrBatchNotFound)
}

func TestGenerateBatchFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.record(t, f.jane.ID, "2024-05-01")
	inRange := f.record(t, f.jane.ID, "2024-05-06")
	f.record(t, f.john.ID, "2024-05-06")

	gen, err := f.svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{
		EmployeeIDs: []string{f.jane.ID}, DateFrom: "2024-05-05", DateTo: "2024-05-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.RecordCount)

	detail, err := f.svc.GetBatch(ctx, admin, gen.BatchID)
	require.NoError(t, err)
	require.Len(t, detail.Records, 1)
	assert.Equal(t, inRange.ID, detail.Records[0].ID)

	_, err = f.svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{DateFrom: "2030-01-01"})
	assert.ErrorIs(t, err, batch.ErrNoEligibleRecords)
}

func TestBatchErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.MarkBatchPaid(ctx, admin, "not-a-batch")
	assert.ErrorIs(t, err, batch.ErrInvalidBatchID)

	_, err = f.svc.RevertBatch(ctx, admin, "BATCH-20240101000000-zzzzzz")
	assert.ErrorIs(t, err, batch.ErrBatchNotFound)

	_, err = f.svc.GetBatch(ctx, admin, "BATCH-20240101000000-zzzzzz")
	assert.ErrorIs(t, err, batch.ErrBatchNotFound)

	rep := user.Principal{ID: f.jane.ID, Role: user.RoleRep}
	_, err = f.svc.GenerateBatch(ctx, rep, batch.GenerateBatchRequest{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	_, err = f.svc.ListBatches(ctx, rep)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestExportBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.record(t, f.jane.ID, "2024-05-07")
	f.record(t, f.john.ID, "2024-05-06")

	gen, err := f.svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{})
	require.NoError(t, err)

	var csvOut bytes.Buffer
	require.NoError(t, f.svc.ExportBatch(ctx, admin, gen.BatchID, batch.ExportFormatCSV, &csvOut))
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "batch_id,record_id,employee_id"))
	assert.Contains(t, lines[1], "John Roe")
	assert.Contains(t, lines[2], "Jane Doe")

	var xlsxOut bytes.Buffer
	require.NoError(t, f.svc.ExportBatch(ctx, admin, gen.BatchID, batch.ExportFormatXLSX, &xlsxOut))
	var rows []batch.ExportRow
	require.NoError(t, export.ReadXLSX(&xlsxOut, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "37.00", rows[0].TotalPayment)
	assert.Equal(t, gen.BatchID, rows[1].BatchID)

	err = f.svc.ExportBatch(ctx, admin, gen.BatchID, batch.ExportFormat("pdf"), &bytes.Buffer{})
	assert.ErrorIs(t, err, batch.ErrUnsupportedFormat)
}

// shortBulkUpdate applies a bulk update to at most limit of the selected ids,
// the way a concurrent generation that grabbed the rest would leave it.
type shortBulkUpdate struct {
	workrecord.WorkRecordRepository
	limit int
}

func (r shortBulkUpdate) BulkUpdate(ctx context.Context, filter workrecord.Filter, patch workrecord.Patch) (int64, error) {
	if r.limit == 0 {
		return 0, nil
	}
	if len(filter.IDs) > r.limit {
		filter.IDs = filter.IDs[:r.limit]
	}
	return r.WorkRecordRepository.BulkUpdate(ctx, filter, patch)
}

func TestGenerateBatch_ShortUpdateRollsBack(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  error
	}{
		{"no rows updated", 0, batch.ErrZeroRowsAffected},
		{"some rows updated", 1, batch.ErrBatchConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db, err := sqlite.Open(ctx, ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			jane, err := sqlite.NewCandidateRepository(db).Create(ctx, candidate.Candidate{Name: "Jane Doe", Username: "janedoe", Status: candidate.StatusWorking})
			require.NoError(t, err)

			f := fixture{records: sqlite.NewWorkRecordRepository(db), jane: jane}
			f.record(t, jane.ID, "2024-05-06")
			f.record(t, jane.ID, "2024-05-07")

			svc := NewBatchService(sqlite.NewTransactor(db), shortBulkUpdate{WorkRecordRepository: f.records, limit: tt.limit}, nil)
			resp, err := svc.GenerateBatch(ctx, admin, batch.GenerateBatchRequest{})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, resp.BatchID)

			for _, r := range f.statuses(t) {
				assert.True(t, r.PaymentStatus.Is(workrecord.PaymentStatusUnpaid), "record %s is %s", r.ID, r.PaymentStatus)
				assert.Nil(t, r.PaymentBatchID, "record %s", r.ID)
			}
		})
	}
}
