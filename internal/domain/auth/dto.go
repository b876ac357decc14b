package auth

import "github.com/repsboard/payroll-backend/internal/pkg/validator"

type AdminLoginRequest struct {
	Passcode string `json:"passcode"`
}

func (r *AdminLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Passcode) {
		errs = append(errs, validator.ValidationError{
			Field:   "passcode",
			Message: "passcode is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RepLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *RepLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
	User        MeResponse `json:"user"`
}

type MeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
