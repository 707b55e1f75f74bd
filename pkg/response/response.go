// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"errors"
	"net/http"
	"time"

	"mexared-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

// retryAfterSeconds is advertised on lock timeouts; the contended wallet is
// usually free again within a second.
const retryAfterSeconds = "1"

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
	Timestamp string         `json:"timestamp"`
}

// OK answers 200.
func OK(c *gin.Context, data any) { Success(c, http.StatusOK, data) }

// Created answers 201.
func Created(c *gin.Context, data any) { Success(c, http.StatusCreated, data) }

// Success wraps data in the success envelope under the given status.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: RequestID(c),
		Timestamp: timestamp(),
	})
}

// Error maps err onto the error envelope. The first *apperror.AppError in
// the chain picks status and code; the wrapped cause is never exposed.
// Anything else becomes SYS_001.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.InternalError(err)
	}
	if appErr.Code == apperror.CodeLockTimeout {
		c.Header("Retry-After", retryAfterSeconds)
	}

	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: RequestID(c),
		Timestamp: timestamp(),
	})
}

// RequestID returns the id set by the request-id middleware. Outside that
// middleware a fresh id is minted so the envelope is never blank.
func RequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return uuid.NewString()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
