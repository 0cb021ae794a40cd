package common

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"shop-api/logger"

	"github.com/sirupsen/logrus"
)

// Error kinds form the stable, machine-readable taxonomy surfaced to clients.
// Handlers translate every internal failure into exactly one of these; raw
// driver or library errors are only ever logged.
const (
	KindUnauthenticated     = "unauthenticated"
	KindForbidden           = "forbidden"
	KindInvalidCredentials  = "invalid_credentials"
	KindInvalidRefreshToken = "invalid_refresh_token"
	KindDuplicateEmail      = "duplicate_email"
	KindNotFound            = "not_found"
	KindSelfDeletion        = "self_deletion"
	KindValidation          = "validation"
	KindTransient           = "transient"
	KindInternal            = "internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Unexpected classifies an error from a lower layer that no handler mapped
// explicitly. Persistence timeouts and cancelled requests surface as
// retryable; everything else is an internal error with a generic message.
func Unexpected(message string, err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewAppError(http.StatusServiceUnavailable, KindTransient, "Service temporarily unavailable, please retry", err)
	}
	return NewAppError(http.StatusInternalServerError, KindInternal, message, err)
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"error_kind":     e.Kind,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
