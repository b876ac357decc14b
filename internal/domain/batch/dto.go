package batch

import (
	"strings"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/daterange"
	"github.com/repsboard/payroll-backend/internal/pkg/timecodec"
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(s)) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatXLSX:
		return ExportFormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// ========== GENERATE ==========

// GenerateBatchRequest selects the unpaid records to batch. Empty fields do not filter.
type GenerateBatchRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	DateFrom    string   `json:"date_from,omitempty"`
	DateTo      string   `json:"date_to,omitempty"`
	Period      string   `json:"period,omitempty"`
	RecordIDs   []string `json:"record_ids,omitempty"`
}

func (r *GenerateBatchRequest) Validate() error {
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
	if r.Period != "" {
		if _, err := daterange.Resolve(daterange.Preset(r.Period), time.Now()); err != nil {
			errs = append(errs, validator.ValidationError{Field: "period", Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter returns the selection restricted to unpaid records.
func (r *GenerateBatchRequest) Filter(now time.Time) workrecord.Filter {
	f := workrecord.Filter{
		IDs:         r.RecordIDs,
		EmployeeIDs: r.EmployeeIDs,
		DateFrom:    r.DateFrom,
		DateTo:      r.DateTo,
		Statuses:    []workrecord.PaymentStatus{workrecord.PaymentStatusUnpaid},
	}
	if r.DateFrom == "" && r.DateTo == "" && r.Period != "" {
		if rng, err := daterange.Resolve(daterange.Preset(r.Period), now); err == nil {
			f.DateFrom, f.DateTo = rng.From, rng.To
		}
	}
	return f
}

type GenerateBatchResponse struct {
	BatchID     string          `json:"batch_id"`
	RecordCount int             `json:"record_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TransitionResponse reports a paid or revert transition. Affected is zero for a repeated call.
type TransitionResponse struct {
	BatchID  string `json:"batch_id"`
	Status   string `json:"status"`
	Affected int64  `json:"affected"`
}

// ========== VIEWS ==========

type BatchSummaryResponse struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	RecordCount   int             `json:"record_count"`
	EmployeeCount int             `json:"employee_count"`
	TotalBase     decimal.Decimal `json:"total_base"`
	TotalBonus    decimal.Decimal `json:"total_bonus"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DateFrom      string          `json:"date_from"`
	DateTo        string          `json:"date_to"`
	CreatedAt     *string         `json:"created_at,omitempty"`
}

func ToSummaryResponse(s Summary) BatchSummaryResponse {
	resp := BatchSummaryResponse{
		ID:            s.ID,
		Status:        strings.ToLower(string(s.Status)),
		RecordCount:   s.RecordCount,
		EmployeeCount: s.EmployeeCount,
		TotalBase:     s.TotalBase,
		TotalBonus:    s.TotalBonus,
		TotalAmount:   s.TotalAmount,
		DateFrom:      s.DateFrom,
		DateTo:        s.DateTo,
	}
	if !s.CreatedAt.IsZero() {
		createdAt := s.CreatedAt.Format(time.RFC3339)
		resp.CreatedAt = &createdAt
	}
	return resp
}

type BatchDetailResponse struct {
	BatchSummaryResponse
	Records []workrecord.WorkRecordResponse `json:"records"`
}

// ExportRow is one line of a batch export.
type ExportRow struct {
	BatchID         string `csv:"batch_id"`
	RecordID        string `csv:"record_id"`
	EmployeeID      string `csv:"employee_id"`
	EmployeeName    string `csv:"employee_name"`
	Date            string `csv:"date"`
	TalkTime        string `csv:"talk_time"`
	WaitTime        string `csv:"wait_time"`
	ActiveTime      string `csv:"active_time"`
	RatePerHour     string `csv:"rate_per_hour"`
	SetsAdded       int    `csv:"sets_added"`
	BreakMinutes    int    `csv:"break_minutes"`
	MeetingMinutes  int    `csv:"meeting_minutes"`
	MorningMeetings int    `csv:"morning_meetings"`
	BasePayment     string `csv:"base_payment"`
	MoesTotal       string `csv:"moes_total"`
	TotalPayment    string `csv:"total_payment"`
	Training        bool   `csv:"training"`
	PaymentStatus   string `csv:"payment_status"`
}

func ToExportRow(r workrecord.WorkRecord) ExportRow {
	row := ExportRow{
		RecordID:        r.ID,
		EmployeeID:      r.EmployeeID,
		Date:            r.Date,
		TalkTime:        r.TalkTime,
		WaitTime:        r.WaitTime,
		ActiveTime:      timecodec.FormatDuration(r.ActiveSeconds()),
		RatePerHour:     r.RatePerHour.StringFixed(2),
		SetsAdded:       r.SetsAdded,
		BreakMinutes:    r.BreakMinutes,
		MeetingMinutes:  r.MeetingMinutes,
		MorningMeetings: r.MorningMeetingMinutes,
		BasePayment:     r.BasePayment().StringFixed(2),
		MoesTotal:       r.MoesTotal.StringFixed(2),
		TotalPayment:    r.TotalPayment().StringFixed(2),
		Training:        r.Training,
		PaymentStatus:   strings.ToLower(string(r.PaymentStatus)),
	}
	if r.PaymentBatchID != nil {
		row.BatchID = *r.PaymentBatchID
	}
	if r.EmployeeName != nil {
		row.EmployeeName = *r.EmployeeName
	}
	return row
}
