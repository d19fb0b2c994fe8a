package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/market-lookup/internal/adapters/http/dto"
	"github.com/jsamuelsen/market-lookup/internal/platform/logging"
)

// PanicResponder writes the response for a recovered panic.
type PanicResponder func(c *gin.Context, traceID string)

// Recovery turns a panic into a logged 500. respond renders the body; when
// nil a JSON error envelope is written.
func Recovery(respond PanicResponder) gin.HandlerFunc {
	if respond == nil {
		respond = respondJSON
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctx := c.Request.Context()

			var traceID string
			if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}

			logging.FromContext(ctx).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", traceID),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			respond(c, traceID)
			c.Abort()
		}()

		c.Next()
	}
}

func respondJSON(c *gin.Context, traceID string) {
	resp := dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(traceID)
	c.JSON(http.StatusInternalServerError, resp)
}
