package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/internal/module/admin"
	"github.com/kislikjeka/cointrack/internal/platform/user"
	apperrors "github.com/kislikjeka/cointrack/internal/shared/errors"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// respondAppError maps a service error to its HTTP status. Unknown errors are
// logged and reported as a generic 500.
func respondAppError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr := toAppError(err)
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.WithContext(r.Context()).WithError(err).Error("request failed", "path", r.URL.Path)
	}
	respondJSON(w, ErrorResponse{Error: appErr.Message, Code: appErr.Code}, status)
}

// toAppError translates domain sentinel errors into AppErrors
func toAppError(err error) *apperrors.AppError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return apperrors.NotFound("transaction")
	case errors.Is(err, ledger.ErrQuickActionNotFound):
		return apperrors.NotFound("quick action")
	case errors.Is(err, ledger.ErrProfileNotFound):
		return apperrors.NotFound("profile")
	case errors.Is(err, ledger.ErrProfileExists):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, ledger.ErrInvalidImport),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrInvalidGoal),
		errors.Is(err, ledger.ErrInvalidQuickAction),
		errors.Is(err, ledger.ErrInvalidProfileName),
		errors.Is(err, ledger.ErrInvalidPagination):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())

	case errors.Is(err, user.ErrUserAlreadyExists):
		return apperrors.Conflict("username is already taken")
	case errors.Is(err, user.ErrInvalidPassword):
		return apperrors.Unauthorized("invalid username or password")
	case errors.Is(err, user.ErrUserNotFound):
		return apperrors.NotFound("user")
	case errors.Is(err, user.ErrPasswordTooShort):
		return apperrors.Validation("password must be at least 8 characters")
	case errors.Is(err, user.ErrInvalidUsername):
		return apperrors.Validation("username must be 3-32 letters, digits, dots, dashes or underscores")
	case errors.Is(err, user.ErrUnauthorized):
		return apperrors.Forbidden(err.Error())

	case errors.Is(err, admin.ErrBroadcastTooLong):
		return apperrors.Validation(err.Error())
	}

	return apperrors.Internal("internal server error", err)
}
