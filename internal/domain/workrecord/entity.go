package workrecord

import (
	"strings"
	"time"

	"github.com/repsboard/payroll-backend/internal/pkg/compensation"
	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus accepts any letter case and returns the canonical lower-case status.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentStatusUnpaid:
		return PaymentStatusUnpaid, true
	case PaymentStatusPending:
		return PaymentStatusPending, true
	case PaymentStatusPaid:
		return PaymentStatusPaid, true
	}
	return "", false
}

// Is compares statuses case-insensitively.
func (s PaymentStatus) Is(other PaymentStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// sortRank orders unpaid first, then pending, then paid.
func (s PaymentStatus) sortRank() int {
	switch {
	case s.Is(PaymentStatusUnpaid):
		return 0
	case s.Is(PaymentStatusPending):
		return 1
	case s.Is(PaymentStatusPaid):
		return 2
	}
	return 3
}

// WorkSession is one day of work for a rep as submitted by an administrator.
type WorkSession struct {
	EmployeeID            string
	Date                  string // YYYY-MM-DD
	TalkTime              string // HH:MM:SS
	WaitTime              string // HH:MM:SS
	RatePerHour           decimal.Decimal
	SetsAdded             int
	BreakMinutes          int
	MeetingMinutes        int
	MorningMeetingMinutes int
	IsTrainingRequested   bool
}

// ActiveSeconds is talk time plus wait time.
func (s WorkSession) ActiveSeconds() int64 {
	return timecodec.AddSeconds(timecodec.ParseDuration(s.TalkTime), timecodec.ParseDuration(s.WaitTime))
}

// ZeroActiveTime reports a session with neither talk nor wait time.
// Such a session is allowed but the submitter should confirm it.
func (s WorkSession) ZeroActiveTime() bool {
	return s.ActiveSeconds() == 0
}

func (s WorkSession) Measures() compensation.Measures {
	return compensation.Measures{
		ActiveSeconds:         s.ActiveSeconds(),
		SetsAdded:             s.SetsAdded,
		BreakMinutes:          s.BreakMinutes,
		MeetingMinutes:        s.MeetingMinutes,
		MorningMeetingMinutes: s.MorningMeetingMinutes,
	}
}

// WorkRecord - Persisted session with derived bonus and payment state
type WorkRecord struct {
	ID                    string
	EmployeeID            string
	Date                  string
	TalkTime              string
	WaitTime              string
	RatePerHour           decimal.Decimal
	SetsAdded             int
	BreakMinutes          int
	MeetingMinutes        int
	MorningMeetingMinutes int
	MoesTotal             decimal.Decimal
	Training              bool
	PaymentStatus         PaymentStatus
	PaymentBatchID        *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Joined fields
	EmployeeName *string
}

func (r WorkRecord) Measures() compensation.Measures {
	return compensation.Measures{
		ActiveSeconds:         r.ActiveSeconds(),
		SetsAdded:             r.SetsAdded,
		BreakMinutes:          r.BreakMinutes,
		MeetingMinutes:        r.MeetingMinutes,
		MorningMeetingMinutes: r.MorningMeetingMinutes,
	}
}

func (r WorkRecord) ActiveSeconds() int64 {
	return timecodec.AddSeconds(timecodec.ParseDuration(r.TalkTime), timecodec.ParseDuration(r.WaitTime))
}

// BasePayment is the hourly and per-set pay of the record.
func (r WorkRecord) BasePayment() decimal.Decimal {
	return compensation.BasePayment(r.Measures(), r.RatePerHour)
}

// TotalPayment is the base payment plus the stored bonus.
func (r WorkRecord) TotalPayment() decimal.Decimal {
	return r.BasePayment().Add(r.MoesTotal)
}

// IsLocked reports whether the record is paid and may no longer be edited or deleted.
func (r WorkRecord) IsLocked() bool {
	return r.PaymentStatus.Is(PaymentStatusPaid)
}

// Less orders records unpaid, pending, paid and then newest date first.
func Less(a, b WorkRecord) bool {
	ra, rb := a.PaymentStatus.sortRank(), b.PaymentStatus.sortRank()
	if ra != rb {
		return ra < rb
	}
	return a.Date > b.Date
}
