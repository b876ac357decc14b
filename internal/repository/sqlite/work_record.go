package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

type workRecordRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewWorkRecordRepository(db *database.SQLiteDB) workrecord.WorkRecordRepository {
	return &workRecordRepositoryImpl{db: db}
}

const workRecordColumns = `
	wr.id, wr.employee_id, wr.work_date, wr.talk_time, wr.wait_time,
	wr.rate_per_hour, wr.sets_added, wr.break_minutes, wr.meeting_minutes, wr.morning_meeting_minutes,
	wr.moes_total, wr.training, wr.payment_status, wr.payment_batch_id, wr.created_at, wr.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkRecord(row rowScanner) (workrecord.WorkRecord, error) {
	var r workrecord.WorkRecord
	var status string
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.TalkTime, &r.WaitTime,
		&r.RatePerHour, &r.SetsAdded, &r.BreakMinutes, &r.MeetingMinutes, &r.MorningMeetingMinutes,
		&r.MoesTotal, &r.Training, &status, &r.PaymentBatchID, &r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName,
	)
	if err != nil {
		return workrecord.WorkRecord{}, err
	}
	r.PaymentStatus = workrecord.PaymentStatus(status)
	return r, nil
}

func constraintCode(err error) sqlite3.ErrNoExtended {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode
	}
	return 0
}

func translateWorkRecordError(err error) error {
	switch constraintCode(err) {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return workrecord.ErrDuplicateWorkRecord
	case sqlite3.ErrConstraintForeignKey:
		return workrecord.ErrEmployeeReferenceGone
	}
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func buildWorkRecordWhere(f workrecord.Filter) (string, []any) {
	var conditions []string
	var args []any

	if len(f.IDs) > 0 {
		conditions = append(conditions, "wr.id IN ("+placeholders(len(f.IDs))+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	if len(f.EmployeeIDs) > 0 {
		conditions = append(conditions, "wr.employee_id IN ("+placeholders(len(f.EmployeeIDs))+")")
		for _, id := range f.EmployeeIDs {
			args = append(args, id)
		}
	}
	if f.Date != "" {
		conditions = append(conditions, "wr.work_date = ?")
		args = append(args, f.Date)
	}
	if f.DateFrom != "" {
		conditions = append(conditions, "wr.work_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conditions = append(conditions, "wr.work_date <= ?")
		args = append(args, f.DateTo)
	}
	if f.BatchID != nil {
		conditions = append(conditions, "wr.payment_batch_id = ?")
		args = append(args, *f.BatchID)
	}
	if len(f.Statuses) > 0 {
		conditions = append(conditions, "lower(wr.payment_status) IN ("+placeholders(len(f.Statuses))+")")
		for _, s := range f.Statuses {
			args = append(args, strings.ToLower(string(s)))
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func buildWorkRecordSet(p workrecord.Patch, now time.Time) ([]string, []any) {
	var setParts []string
	var args []any

	add := func(col string, val any) {
		setParts = append(setParts, col+" = ?")
		args = append(args, val)
	}

	if p.EmployeeID != nil {
		add("employee_id", *p.EmployeeID)
	}
	if p.Date != nil {
		add("work_date", *p.Date)
	}
	if p.TalkTime != nil {
		add("talk_time", *p.TalkTime)
	}
	if p.WaitTime != nil {
		add("wait_time", *p.WaitTime)
	}
	if p.RatePerHour != nil {
		add("rate_per_hour", p.RatePerHour.String())
	}
	if p.SetsAdded != nil {
		add("sets_added", *p.SetsAdded)
	}
	if p.BreakMinutes != nil {
		add("break_minutes", *p.BreakMinutes)
	}
	if p.MeetingMinutes != nil {
		add("meeting_minutes", *p.MeetingMinutes)
	}
	if p.MorningMeetingMinutes != nil {
		add("morning_meeting_minutes", *p.MorningMeetingMinutes)
	}
	if p.MoesTotal != nil {
		add("moes_total", p.MoesTotal.String())
	}
	if p.Training != nil {
		add("training", *p.Training)
	}
	if p.PaymentStatus != nil {
		add("payment_status", strings.ToLower(string(*p.PaymentStatus)))
	}
	if p.ClearPaymentBatchID {
		setParts = append(setParts, "payment_batch_id = NULL")
	} else if p.PaymentBatchID != nil {
		add("payment_batch_id", *p.PaymentBatchID)
	}
	add("updated_at", now)

	return setParts, args
}

const selectWorkRecords = `SELECT ` + workRecordColumns + `, c.name
	FROM work_records wr
	LEFT JOIN candidates c ON c.id = wr.employee_id`

func (r *workRecordRepositoryImpl) Find(ctx context.Context, filter workrecord.Filter) ([]workrecord.WorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildWorkRecordWhere(filter)
	rows, err := q.QueryContext(ctx, selectWorkRecords+where+` ORDER BY wr.work_date DESC, wr.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query work records: %w", err)
	}
	defer rows.Close()

	var records []workrecord.WorkRecord
	for rows.Next() {
		rec, err := scanWorkRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work records: %w", err)
	}
	return records, nil
}

func (r *workRecordRepositoryImpl) GetByID(ctx context.Context, id string) (workrecord.WorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanWorkRecord(q.QueryRowContext(ctx, selectWorkRecords+` WHERE wr.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workrecord.WorkRecord{}, workrecord.ErrWorkRecordNotFound
		}
		return workrecord.WorkRecord{}, fmt.Errorf("failed to get work record with id %s: %w", id, err)
	}
	return rec, nil
}

func (r *workRecordRepositoryImpl) Insert(ctx context.Context, rec workrecord.WorkRecord) (workrecord.WorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = workrecord.PaymentStatusUnpaid
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	query := `
		INSERT INTO work_records (
			id, employee_id, work_date, talk_time, wait_time, rate_per_hour, sets_added,
			break_minutes, meeting_minutes, morning_meeting_minutes, moes_total, training,
			payment_status, payment_batch_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID, rec.Date, rec.TalkTime, rec.WaitTime, rec.RatePerHour.String(), rec.SetsAdded,
		rec.BreakMinutes, rec.MeetingMinutes, rec.MorningMeetingMinutes, rec.MoesTotal.String(), rec.Training,
		strings.ToLower(string(rec.PaymentStatus)), rec.PaymentBatchID, now, now,
	)
	if err != nil {
		if translated := translateWorkRecordError(err); translated != err {
			return workrecord.WorkRecord{}, translated
		}
		return workrecord.WorkRecord{}, fmt.Errorf("failed to insert work record: %w", err)
	}
	return rec, nil
}

func (r *workRecordRepositoryImpl) Update(ctx context.Context, id string, patch workrecord.Patch) (workrecord.WorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	setParts, args := buildWorkRecordSet(patch, time.Now().UTC())
	query := fmt.Sprintf("UPDATE work_records SET %s WHERE id = ?", strings.Join(setParts, ", "))
	args = append(args, id)

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if translated := translateWorkRecordError(err); translated != err {
			return workrecord.WorkRecord{}, translated
		}
		return workrecord.WorkRecord{}, fmt.Errorf("failed to update work record with id %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return workrecord.WorkRecord{}, workrecord.ErrWorkRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *workRecordRepositoryImpl) BulkUpdate(ctx context.Context, filter workrecord.Filter, patch workrecord.Patch) (int64, error) {
	if filter.IsEmpty() {
		return 0, fmt.Errorf("refusing bulk update without a filter")
	}
	q := GetQuerier(ctx, r.db)

	setParts, setArgs := buildWorkRecordSet(patch, time.Now().UTC())
	where, whereArgs := buildWorkRecordWhere(filter)
	// The WHERE clause references the wr alias.
	query := fmt.Sprintf("UPDATE work_records AS wr SET %s%s", strings.Join(setParts, ", "), where)

	res, err := q.ExecContext(ctx, query, append(setArgs, whereArgs...)...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update work records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

func (r *workRecordRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM work_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work record with id %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return workrecord.ErrWorkRecordNotFound
	}
	return nil
}

func (r *workRecordRepositoryImpl) DeleteByEmployee(ctx context.Context, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM work_records WHERE employee_id = ?`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete work records of employee %s: %w", employeeID, err)
	}
	return res.RowsAffected()
}

// LockEmployeeDay is a no-op: the store runs on a single connection, so transactions are already serialised.
func (r *workRecordRepositoryImpl) LockEmployeeDay(ctx context.Context, employeeID, date string) error {
	return nil
}
