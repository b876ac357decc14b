package workrecord

import (
	"strings"
	"time"

	"github.com/repsboard/payroll-backend/internal/pkg/daterange"
	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// WarningZeroActiveTime is returned when a saved session has neither talk nor wait time.
const WarningZeroActiveTime = "active time is 0; confirm this session was intended"

// ========== SAVE ==========

type SaveWorkRecordRequest struct {
	ID                    string           `json:"-"`
	EmployeeID            string           `json:"employee_id"`
	Date                  string           `json:"date"`
	TalkTime              string           `json:"talk_time"`
	WaitTime              string           `json:"wait_time"`
	RatePerHour           *decimal.Decimal `json:"rate_per_hour,omitempty"`
	SetsAdded             int              `json:"sets_added"`
	BreakMinutes          int              `json:"break_minutes"`
	MeetingMinutes        int              `json:"meeting_minutes"`
	MorningMeetingMinutes int              `json:"morning_meetings"`
	IsTraining            bool             `json:"is_training"`
}

func (r *SaveWorkRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "an employee must be selected"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !validator.IsEmpty(r.TalkTime) && !validator.IsValidDuration(r.TalkTime) {
		errs = append(errs, validator.ValidationError{Field: "talk_time", Message: "must be in HH:MM:SS format"})
	}
	if !validator.IsEmpty(r.WaitTime) && !validator.IsValidDuration(r.WaitTime) {
		errs = append(errs, validator.ValidationError{Field: "wait_time", Message: "must be in HH:MM:SS format"})
	}
	if r.RatePerHour != nil && r.RatePerHour.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_hour", Message: "must be non-negative"})
	}
	if r.SetsAdded < 0 {
		errs = append(errs, validator.ValidationError{Field: "sets_added", Message: "must be non-negative"})
	}
	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "must be non-negative"})
	}
	if r.MeetingMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "meeting_minutes", Message: "must be non-negative"})
	}
	if r.MorningMeetingMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "morning_meetings", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Session converts the request into a work session with defaults applied.
func (r *SaveWorkRecordRequest) Session() WorkSession {
	rate := decimal.Zero
	if r.RatePerHour != nil {
		rate = *r.RatePerHour
	}
	return WorkSession{
		EmployeeID:            strings.TrimSpace(r.EmployeeID),
		Date:                  r.Date,
		TalkTime:              r.TalkTime,
		WaitTime:              r.WaitTime,
		RatePerHour:           rate,
		SetsAdded:             r.SetsAdded,
		BreakMinutes:          r.BreakMinutes,
		MeetingMinutes:        r.MeetingMinutes,
		MorningMeetingMinutes: r.MorningMeetingMinutes,
		IsTrainingRequested:   r.IsTraining,
	}
}

type SaveWorkRecordResponse struct {
	Action   Action             `json:"action"`
	Record   WorkRecordResponse `json:"record"`
	Warnings []string           `json:"warnings,omitempty"`
}

// ========== READ ==========

type WorkRecordResponse struct {
	ID                    string          `json:"id"`
	EmployeeID            string          `json:"employee_id"`
	EmployeeName          *string         `json:"employee_name,omitempty"`
	Date                  string          `json:"date"`
	TalkTime              string          `json:"talk_time"`
	WaitTime              string          `json:"wait_time"`
	ActiveTime            string          `json:"active_time"`
	RatePerHour           decimal.Decimal `json:"rate_per_hour"`
	SetsAdded             int             `json:"sets_added"`
	BreakMinutes          int             `json:"break_minutes"`
	MeetingMinutes        int             `json:"meeting_minutes"`
	MorningMeetingMinutes int             `json:"morning_meetings"`
	MoesTotal             decimal.Decimal `json:"moes_total"`
	BasePayment           decimal.Decimal `json:"base_payment"`
	TotalPayment          decimal.Decimal `json:"total_payment"`
	Training              bool            `json:"training"`
	PaymentStatus         string          `json:"payment_status"`
	PaymentBatchID        *string         `json:"payment_batch_id"`
	Locked                bool            `json:"locked"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}

func ToResponse(r WorkRecord) WorkRecordResponse {
	return WorkRecordResponse{
		ID:                    r.ID,
		EmployeeID:            r.EmployeeID,
		EmployeeName:          r.EmployeeName,
		Date:                  r.Date,
		TalkTime:              r.TalkTime,
		WaitTime:              r.WaitTime,
		ActiveTime:            timecodec.FormatDuration(r.ActiveSeconds()),
		RatePerHour:           r.RatePerHour,
		SetsAdded:             r.SetsAdded,
		BreakMinutes:          r.BreakMinutes,
		MeetingMinutes:        r.MeetingMinutes,
		MorningMeetingMinutes: r.MorningMeetingMinutes,
		MoesTotal:             r.MoesTotal,
		BasePayment:           r.BasePayment(),
		TotalPayment:          r.TotalPayment(),
		Training:              r.Training,
		PaymentStatus:         strings.ToLower(string(r.PaymentStatus)),
		PaymentBatchID:        r.PaymentBatchID,
		Locked:                r.IsLocked(),
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             r.UpdatedAt.Format(time.RFC3339),
	}
}

type ListWorkRecordsRequest struct {
	EmployeeIDs []string
	DateFrom    string
	DateTo      string
	Period      string
	Status      string
	BatchID     string
}

func (r *ListWorkRecordsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DateFrom != "" {
		if _, ok := validator.IsValidDate(r.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_from", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.DateTo != "" {
		if _, ok := validator.IsValidDate(r.DateTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_to", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.DateFrom != "" && r.DateTo != "" && r.DateFrom > r.DateTo {
		errs = append(errs, validator.ValidationError{Field: "date_to", Message: "must not be before date_from"})
	}
	if r.Period != "" && r.DateFrom == "" && r.DateTo == "" {
		if _, err := daterange.Resolve(daterange.Preset(r.Period), time.Now()); err != nil {
			errs = append(errs, validator.ValidationError{Field: "period", Message: err.Error()})
		}
	}
	if r.Status != "" {
		if _, ok := ParsePaymentStatus(r.Status); !ok {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'unpaid', 'pending' or 'paid'"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter converts the request into a repository filter. An explicit date range wins over a period preset.
func (r *ListWorkRecordsRequest) Filter(now time.Time) Filter {
	f := Filter{EmployeeIDs: r.EmployeeIDs, DateFrom: r.DateFrom, DateTo: r.DateTo}
	if r.DateFrom == "" && r.DateTo == "" && r.Period != "" {
		if rng, err := daterange.Resolve(daterange.Preset(r.Period), now); err == nil {
			f.DateFrom, f.DateTo = rng.From, rng.To
		}
	}
	if status, ok := ParsePaymentStatus(r.Status); ok {
		f.Statuses = []PaymentStatus{status}
	}
	if r.BatchID != "" {
		batchID := r.BatchID
		f.BatchID = &batchID
	}
	return f
}

// ========== PREVIEW ==========

// PreviewRequest carries loosely typed numbers; unparsable values arrive as NaN and zero the result.
type PreviewRequest struct {
	TalkTime              string
	WaitTime              string
	RatePerHour           float64
	SetsAdded             float64
	BreakMinutes          float64
	MeetingMinutes        float64
	MorningMeetingMinutes float64
	IsTraining            bool
}

type PreviewResponse struct {
	ActiveTime    string          `json:"active_time"`
	ActiveSeconds int64           `json:"active_seconds"`
	BasePayment   decimal.Decimal `json:"base_payment"`
	RepsBonus     decimal.Decimal `json:"reps_bonus"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	Training      bool            `json:"training"`
	Warnings      []string        `json:"warnings,omitempty"`
}
