package candidate

import (
	"strings"
	"time"

	"github.com/repsboard/payroll-backend/internal/pkg/validator"
)

type CreateCandidateRequest struct {
	Name string `json:"name"`
}

func (r *CreateCandidateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDetailsRequest struct {
	ID       string  `json:"-"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Alias    *string `json:"alias,omitempty"`
}

func (r *UpdateDetailsRequest) Validate() error {
	if r.Username == nil && r.Password == nil && r.Alias == nil {
		return ErrNoDetailsProvided
	}

	var errs validator.ValidationErrors
	if r.Username != nil && !validator.IsValidUsername(*r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username must be 3-50 characters of letters, numbers, dots, underscores or hyphens"})
	}
	if r.Password != nil && len(*r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters long"})
	}
	if r.Password != nil && len(*r.Password) > 72 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"})
	}
	if r.Alias != nil && len(*r.Alias) > 255 {
		errs = append(errs, validator.ValidationError{Field: "alias", Message: "alias must not exceed 255 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	if _, ok := ParseStatus(r.Status); !ok {
		options := make([]string, 0, len(StatusOptions))
		for _, s := range StatusOptions {
			options = append(options, string(s))
		}
		return validator.ValidationErrors{{Field: "status", Message: "must be one of: " + strings.Join(options, ", ")}}
	}
	return nil
}

type CandidateResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Username    string  `json:"username"`
	Alias       *string `json:"alias,omitempty"`
	DisplayName string  `json:"display_name"`
	Status      string  `json:"status"`
	Active      bool    `json:"active"`
	HasAccess   bool    `json:"has_access"`
	CreatedAt   string  `json:"created_at"`
}

func ToResponse(c Candidate) CandidateResponse {
	return CandidateResponse{
		ID:          c.ID,
		Name:        c.Name,
		Username:    c.Username,
		Alias:       c.Alias,
		DisplayName: c.DisplayName(),
		Status:      strings.ToLower(string(c.Status)),
		Active:      c.Status.IsActive(),
		HasAccess:   c.HasAccess(),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
