package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error kinds surfaced alongside human messages.
const (
	KindValidation   = "validation_error"
	KindUnauthorized = "unauthorized"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindRateLimited  = "rate_limited"
	KindInternal     = "internal_error"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Kind      string      `json:"kind,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope with the given payload.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes a failure envelope with a stable kind and optional details.
func Error(ctx *gin.Context, status int, kind, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Kind:      kind,
		Error:     details,
	})
}

// AbortError writes a failure envelope and stops the handler chain.
// Used by middleware so no downstream handler runs after a rejection.
func AbortError(ctx *gin.Context, status int, kind, message string, details interface{}) {
	Error(ctx, status, kind, message, details)
	ctx.Abort()
}
