package performance

import (
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdatePerformanceRequest struct {
	FullName      string          `json:"-"`
	Breaks        int             `json:"breaks"`
	ZoomMeetings  int             `json:"zoom_meetings"`
	RatePerHour   decimal.Decimal `json:"rate_per_hour"`
	ZoomScheduled int             `json:"zoom_scheduled"`
}

func (r *UpdatePerformanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "an agent must be selected"})
	}
	if r.Breaks < 0 {
		errs = append(errs, validator.ValidationError{Field: "breaks", Message: "must be non-negative"})
	}
	if r.ZoomMeetings < 0 {
		errs = append(errs, validator.ValidationError{Field: "zoom_meetings", Message: "must be non-negative"})
	}
	if r.RatePerHour.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_hour", Message: "must be non-negative"})
	}
	if r.ZoomScheduled < 0 {
		errs = append(errs, validator.ValidationError{Field: "zoom_scheduled", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportRow is one line of a performance sync CSV file.
type ImportRow struct {
	FullName      string `csv:"full_name"`
	Breaks        int    `csv:"breaks"`
	ZoomMeetings  int    `csv:"zoom_meetings"`
	RatePerHour   string `csv:"rate_per_hour"`
	ZoomScheduled int    `csv:"zoom_scheduled"`
}
