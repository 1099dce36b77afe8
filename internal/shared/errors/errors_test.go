package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{Validation("bad goal"), http.StatusBadRequest},
		{BadRequest("bad json"), http.StatusBadRequest},
		{InvalidInput("bad page"), http.StatusBadRequest},
		{NotFound("transaction"), http.StatusNotFound},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("admins only"), http.StatusForbidden},
		{Conflict("profile exists"), http.StatusConflict},
		{New(ErrCodeRateLimited, "slow down"), http.StatusTooManyRequests},
		{New(ErrCodeUnavailable, "not ready"), http.StatusServiceUnavailable},
		{StorageError("save failed", errors.New("conn reset")), http.StatusInternalServerError},
		{Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("handler: %w", StorageError("failed to save profile", cause))

	assert.True(t, IsAppError(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	appErr := GetAppError(wrapped)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, ErrCodeStorageError, appErr.Code)
		assert.Equal(t, "STORAGE_ERROR: failed to save profile: connection refused", appErr.Error())
	}

	assert.Nil(t, GetAppError(cause))
	assert.Equal(t, "NOT_FOUND: profile not found", NotFound("profile").Error())
}
