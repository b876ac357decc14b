package workrecord

import (
	"context"

	"github.com/shopspring/decimal"
)

// Filter selects work records. Zero values do not filter.
type Filter struct {
	IDs         []string
	EmployeeIDs []string
	Date        string
	DateFrom    string
	DateTo      string
	BatchID     *string
	Statuses    []PaymentStatus
}

// IsEmpty reports whether the filter would match every record.
func (f Filter) IsEmpty() bool {
	return len(f.IDs) == 0 && len(f.EmployeeIDs) == 0 && f.Date == "" && f.DateFrom == "" &&
		f.DateTo == "" && f.BatchID == nil && len(f.Statuses) == 0
}

// Patch lists the fields that may be changed on an existing record. Nil fields are left alone.
type Patch struct {
	EmployeeID            *string
	Date                  *string
	TalkTime              *string
	WaitTime              *string
	RatePerHour           *decimal.Decimal
	SetsAdded             *int
	BreakMinutes          *int
	MeetingMinutes        *int
	MorningMeetingMinutes *int
	MoesTotal             *decimal.Decimal
	Training              *bool
	PaymentStatus         *PaymentStatus
	PaymentBatchID        *string
	ClearPaymentBatchID   bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.EmployeeID == nil && p.Date == nil && p.TalkTime == nil && p.WaitTime == nil &&
		p.RatePerHour == nil && p.SetsAdded == nil && p.BreakMinutes == nil && p.MeetingMinutes == nil &&
		p.MorningMeetingMinutes == nil && p.MoesTotal == nil && p.Training == nil &&
		p.PaymentStatus == nil && p.PaymentBatchID == nil && !p.ClearPaymentBatchID
}

// FullPatch overwrites every session and bonus field of a record with r's values.
func FullPatch(r WorkRecord) Patch {
	return Patch{
		EmployeeID:            &r.EmployeeID,
		Date:                  &r.Date,
		TalkTime:              &r.TalkTime,
		WaitTime:              &r.WaitTime,
		RatePerHour:           &r.RatePerHour,
		SetsAdded:             &r.SetsAdded,
		BreakMinutes:          &r.BreakMinutes,
		MeetingMinutes:        &r.MeetingMinutes,
		MorningMeetingMinutes: &r.MorningMeetingMinutes,
		MoesTotal:             &r.MoesTotal,
		Training:              &r.Training,
	}
}

// WorkRecordRepository is the record store used by the reconciler and the batch manager.
type WorkRecordRepository interface {
	Find(ctx context.Context, filter Filter) ([]WorkRecord, error)
	GetByID(ctx context.Context, id string) (WorkRecord, error)
	// Insert assigns an id when the record has none.
	Insert(ctx context.Context, record WorkRecord) (WorkRecord, error)
	Update(ctx context.Context, id string, patch Patch) (WorkRecord, error)
	// BulkUpdate returns the number of rows changed so callers can detect silent no-ops.
	BulkUpdate(ctx context.Context, filter Filter, patch Patch) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) (int64, error)
	// LockEmployeeDay serialises writers of one (employee, date) until the transaction ends.
	LockEmployeeDay(ctx context.Context, employeeID, date string) error
}
