package dashboard

import (
	"time"

	"github.com/repsboard/payroll-backend/internal/pkg/daterange"
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== ADMIN UNPAID SUMMARY ==========

type UnpaidSummaryRequest struct {
	EmployeeIDs []string
	DateFrom    string
	DateTo      string
	Period      string
}

func (r *UnpaidSummaryRequest) Validate() error {
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

// UnpaidSummaryResponse covers every record that is not yet paid (unpaid and pending).
type UnpaidSummaryResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"` // sum of base payment + moes_total
	TotalBonus  decimal.Decimal `json:"total_bonus"`
	RecordCount int             `json:"record_count"`
	RepCount    int             `json:"rep_count"`
	ActiveReps  int             `json:"active_reps"`
	DateFrom    string          `json:"date_from,omitempty"`
	DateTo      string          `json:"date_to,omitempty"`
	UpdatedAt   string          `json:"updated_at"`
}

// ========== REP SUMMARY ==========

// RepSummaryResponse is what a rep sees about their own pay. Amounts are base payment only.
type RepSummaryResponse struct {
	EmployeeID     string          `json:"employee_id"`
	UnpaidTotal    decimal.Decimal `json:"unpaid_total"`
	PaidTotal      decimal.Decimal `json:"paid_total"`
	TotalTalkTime  string          `json:"total_talk_time"`
	TotalWaitTime  string          `json:"total_wait_time"`
	TotalActive    string          `json:"total_active_time"`
	TotalSets      int             `json:"total_sets"`
	RecordCount    int             `json:"record_count"`
	PendingBatches []string        `json:"pending_batches"`
}
