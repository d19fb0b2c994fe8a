package dto

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// MapDomainError maps a domain error to a status and envelope. Upstream
// failures get a fixed message: their detail names hosts and request
// parameters and belongs in the logs only.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var resp *ErrorResponse

	switch {
	case domain.IsValidation(err):
		resp = NewErrorResponse(ErrorCodeValidation, err.Error())
		if field, msg, ok := domain.FieldOf(err); ok {
			resp.Error.Details = map[string]string{field: msg}
		}
	case domain.IsNotFound(err):
		resp = NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsMalformed(err):
		resp = NewErrorResponse(ErrorCodeBadUpstream, "the upstream provider returned an unreadable response")
	case domain.IsUnavailable(err):
		resp = NewErrorResponse(ErrorCodeUnavailable, "the upstream provider is unavailable")
	default:
		resp = NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}

	return HTTPStatusFromCode(resp.Error.Code), resp
}

// GetTraceID returns the active span's trace ID, falling back to the
// request ID so every error body can be correlated with the logs.
func GetTraceID(c *gin.Context) string {
	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	if id := c.GetString("request_id"); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes err as a JSON error envelope.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.WithTraceID(GetTraceID(c))

	logger := logging.FromContext(c.Request.Context())

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("lookup failed",
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	case status >= http.StatusBadRequest:
		logger.Debug("request rejected", slog.Int("status", status), slog.Any("error", err))
	}

	c.JSON(status, resp)
}

// HandleBindingError writes a 400 for a failed bind or validation.
func HandleBindingError(c *gin.Context, err error) {
	details := ValidationErrors(err)
	if len(details) == 0 {
		c.JSON(http.StatusBadRequest,
			NewErrorResponse(ErrorCodeBadRequest, "malformed request").WithTraceID(GetTraceID(c)))

		return
	}

	c.JSON(http.StatusBadRequest,
		NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details).
			WithTraceID(GetTraceID(c)))
}
