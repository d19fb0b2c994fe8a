// Package middleware provides gin middleware for the lookup service.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// Header and gin context keys for request tracking IDs.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyCorrelationID
)

// RequestID accepts or generates a per-request ID.
func RequestID() gin.HandlerFunc {
	return trackID(HeaderRequestID, ContextKeyRequestID, ContextWithRequestID)
}

// CorrelationID accepts or generates an ID shared by every hop of one
// user action. Upstream quote and feed calls forward it.
func CorrelationID() gin.HandlerFunc {
	return trackID(HeaderCorrelationID, ContextKeyCorrelationID, ContextWithCorrelationID)
}

// trackID reads header (or mints a UUID), echoes it on the response and
// exposes it through the gin context, context.Context and the context logger.
func trackID(header, key string, store func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(store(c.Request.Context(), id))

		c.Next()
	}
}

// ContextWithRequestID stores the request ID and tags the context logger.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return logging.WithRequestID(context.WithValue(ctx, ctxKeyRequestID, id), id)
}

// ContextWithCorrelationID stores the correlation ID and tags the context logger.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return logging.WithCorrelationID(context.WithValue(ctx, ctxKeyCorrelationID, id), id)
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyCorrelationID)
}

// GetRequestID returns the request ID from the gin context or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID from the gin context or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	s, _ := ctx.Value(key).(string)

	return s
}
