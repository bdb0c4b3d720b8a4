package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
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
	// Auth
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, attendance.ErrEmployeeRequired):
		Forbidden(w, "Token is not bound to an employee")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrCheckInUnavailable):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrCheckOutUnavailable):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrPersistence):
		slog.Error("Attendance persistence failed", "error", err)
		ServiceUnavailable(w, "Attendance storage is unavailable, please retry")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
