package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/performance"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidPasscode),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Work record domain errors
	case errors.Is(err, workrecord.ErrWorkRecordNotFound):
		NotFound(w, "Work record not found")
	case errors.Is(err, workrecord.ErrDuplicateWorkRecord),
		errors.Is(err, workrecord.ErrEmployeeReferenceGone),
		errors.Is(err, workrecord.ErrWorkRecordLocked):
		Conflict(w, err.Error())
	case errors.Is(err, workrecord.ErrInvalidPaymentStatus):
		BadRequest(w, err.Error(), nil)

	// Batch domain errors
	case errors.Is(err, batch.ErrBatchNotFound):
		NotFound(w, "Payment batch not found")
	case errors.Is(err, batch.ErrNoEligibleRecords):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, batch.ErrZeroRowsAffected),
		errors.Is(err, batch.ErrBatchConflict):
		Conflict(w, err.Error())
	case errors.Is(err, batch.ErrInvalidBatchID),
		errors.Is(err, batch.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Candidate domain errors
	case errors.Is(err, candidate.ErrCandidateNotFound):
		NotFound(w, "Candidate not found")
	case errors.Is(err, candidate.ErrUsernameExists):
		Conflict(w, err.Error())
	case errors.Is(err, candidate.ErrNoDetailsProvided),
		errors.Is(err, candidate.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Performance domain errors
	case errors.Is(err, performance.ErrAgentNotFound):
		NotFound(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
