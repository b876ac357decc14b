package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/database"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type workRecordRepositoryImpl struct {
	db *database.DB
}

func NewWorkRecordRepository(db *database.DB) workrecord.WorkRecordRepository {
	return &workRecordRepositoryImpl{db: db}
}

const workRecordColumns = `
	wr.id, wr.employee_id, to_char(wr.work_date, 'YYYY-MM-DD'), wr.talk_time, wr.wait_time,
	wr.rate_per_hour, wr.sets_added, wr.break_minutes, wr.meeting_minutes, wr.morning_meeting_minutes,
	wr.moes_total, wr.training, wr.payment_status, wr.payment_batch_id, wr.created_at, wr.updated_at`

func scanWorkRecord(row pgx.Row, withName bool) (workrecord.WorkRecord, error) {
	var r workrecord.WorkRecord
	var status string
	dest := []interface{}{
		&r.ID, &r.EmployeeID, &r.Date, &r.TalkTime, &r.WaitTime,
		&r.RatePerHour, &r.SetsAdded, &r.BreakMinutes, &r.MeetingMinutes, &r.MorningMeetingMinutes,
		&r.MoesTotal, &r.Training, &status, &r.PaymentBatchID, &r.CreatedAt, &r.UpdatedAt,
	}
	if withName {
		dest = append(dest, &r.EmployeeName)
	}
	if err := row.Scan(dest...); err != nil {
		return workrecord.WorkRecord{}, err
	}
	r.PaymentStatus = workrecord.PaymentStatus(status)
	return r, nil
}

// translateWorkRecordError maps constraint violations to domain errors.
func translateWorkRecordError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return workrecord.ErrDuplicateWorkRecord
		case pgForeignKeyViolation:
			return workrecord.ErrEmployeeReferenceGone
		}
	}
	return err
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// buildWorkRecordWhere renders the filter as a WHERE clause whose placeholders start at argIdx.
func buildWorkRecordWhere(f workrecord.Filter, argIdx int) (string, []interface{}, error) {
	var conditions []string
	var args []interface{}

	if len(f.IDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("wr.id = ANY($%d)", argIdx))
		args = append(args, f.IDs)
		argIdx++
	}
	if len(f.EmployeeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("wr.employee_id = ANY($%d)", argIdx))
		args = append(args, f.EmployeeIDs)
		argIdx++
	}
	if f.Date != "" {
		day, err := parseDay(f.Date)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, fmt.Sprintf("wr.work_date = $%d", argIdx))
		args = append(args, day)
		argIdx++
	}
	if f.DateFrom != "" {
		day, err := parseDay(f.DateFrom)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, fmt.Sprintf("wr.work_date >= $%d", argIdx))
		args = append(args, day)
		argIdx++
	}
	if f.DateTo != "" {
		day, err := parseDay(f.DateTo)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, fmt.Sprintf("wr.work_date <= $%d", argIdx))
		args = append(args, day)
		argIdx++
	}
	if f.BatchID != nil {
		conditions = append(conditions, fmt.Sprintf("wr.payment_batch_id = $%d", argIdx))
		args = append(args, *f.BatchID)
		argIdx++
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = strings.ToLower(string(s))
		}
		conditions = append(conditions, fmt.Sprintf("lower(wr.payment_status) = ANY($%d)", argIdx))
		args = append(args, statuses)
	}

	if len(conditions) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// buildWorkRecordSet renders the patch as a SET clause whose placeholders start at argIdx.
func buildWorkRecordSet(p workrecord.Patch, argIdx int) ([]string, []interface{}, int, error) {
	var setParts []string
	var args []interface{}

	add := func(col string, val interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if p.EmployeeID != nil {
		add("employee_id", *p.EmployeeID)
	}
	if p.Date != nil {
		day, err := parseDay(*p.Date)
		if err != nil {
			return nil, nil, argIdx, err
		}
		add("work_date", day)
	}
	if p.TalkTime != nil {
		add("talk_time", *p.TalkTime)
	}
	if p.WaitTime != nil {
		add("wait_time", *p.WaitTime)
	}
	if p.RatePerHour != nil {
		add("rate_per_hour", *p.RatePerHour)
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
		add("moes_total", *p.MoesTotal)
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
	setParts = append(setParts, "updated_at = NOW()")

	return setParts, args, argIdx, nil
}

func (r *workRecordRepositoryImpl) Find(ctx context.Context, filter workrecord.Filter) ([]workrecord.WorkRecord, error) {
	q := GetQuerier(ctx, r.db)

	where, args, err := buildWorkRecordWhere(filter, 1)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + workRecordColumns + `, c.name
		FROM work_records wr
		LEFT JOIN candidates c ON c.id = wr.employee_id` + where + `
		ORDER BY wr.work_date DESC, wr.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query work records: %w", err)
	}
	defer rows.Close()

	var records []workrecord.WorkRecord
	for rows.Next() {
		rec, err := scanWorkRecord(rows, true)
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

	query := `SELECT ` + workRecordColumns + `, c.name
		FROM work_records wr
		LEFT JOIN candidates c ON c.id = wr.employee_id
		WHERE wr.id = $1`

	rec, err := scanWorkRecord(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if err == pgx.ErrNoRows {
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
	day, err := parseDay(rec.Date)
	if err != nil {
		return workrecord.WorkRecord{}, err
	}

	query := `
		INSERT INTO work_records (
			id, employee_id, work_date, talk_time, wait_time, rate_per_hour, sets_added,
			break_minutes, meeting_minutes, morning_meeting_minutes, moes_total, training,
			payment_status, payment_batch_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, day, rec.TalkTime, rec.WaitTime, rec.RatePerHour, rec.SetsAdded,
		rec.BreakMinutes, rec.MeetingMinutes, rec.MorningMeetingMinutes, rec.MoesTotal, rec.Training,
		strings.ToLower(string(rec.PaymentStatus)), rec.PaymentBatchID,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
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

	setParts, args, argIdx, err := buildWorkRecordSet(patch, 1)
	if err != nil {
		return workrecord.WorkRecord{}, err
	}

	query := fmt.Sprintf(`UPDATE work_records wr SET %s WHERE wr.id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), argIdx, workRecordColumns)
	args = append(args, id)

	rec, err := scanWorkRecord(q.QueryRow(ctx, query, args...), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return workrecord.WorkRecord{}, workrecord.ErrWorkRecordNotFound
		}
		if translated := translateWorkRecordError(err); translated != err {
			return workrecord.WorkRecord{}, translated
		}
		return workrecord.WorkRecord{}, fmt.Errorf("failed to update work record with id %s: %w", id, err)
	}
	return rec, nil
}

func (r *workRecordRepositoryImpl) BulkUpdate(ctx context.Context, filter workrecord.Filter, patch workrecord.Patch) (int64, error) {
	if filter.IsEmpty() {
		return 0, fmt.Errorf("refusing bulk update without a filter")
	}
	q := GetQuerier(ctx, r.db)

	setParts, setArgs, argIdx, err := buildWorkRecordSet(patch, 1)
	if err != nil {
		return 0, err
	}
	where, whereArgs, err := buildWorkRecordWhere(filter, argIdx)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`UPDATE work_records wr SET %s%s`, strings.Join(setParts, ", "), where)
	tag, err := q.Exec(ctx, query, append(setArgs, whereArgs...)...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update work records: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *workRecordRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work record with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return workrecord.ErrWorkRecordNotFound
	}
	return nil
}

func (r *workRecordRepositoryImpl) DeleteByEmployee(ctx context.Context, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_records WHERE employee_id = $1`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete work records of employee %s: %w", employeeID, err)
	}
	return tag.RowsAffected(), nil
}

// LockEmployeeDay takes a transaction-scoped advisory lock. Outside a transaction it is released immediately.
func (r *workRecordRepositoryImpl) LockEmployeeDay(ctx context.Context, employeeID, date string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID+"|"+date); err != nil {
		return fmt.Errorf("failed to lock work day: %w", err)
	}
	return nil
}
