package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the request id.  An incoming value is kept so ids
// can be correlated across services; otherwise a fresh UUID is issued.
const RequestIDHeader = "X-Request-ID"

// AccessLog writes one line per request to the echo logger with method,
// path, status, latency, request id and, when the request carries a span,
// its trace id.
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now().UTC()
			req := c.Request()

			rid := req.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(rid); err != nil {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, rid)

			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}

			var traceID string
			if sc := trace.SpanContextFromContext(req.Context()); sc.IsValid() {
				traceID = sc.TraceID().String()
			}
			c.Logger().Infof("access method=%s path=%s route=%s status=%d latency=%s request_id=%s trace_id=%s",
				req.Method, req.URL.Path, c.Path(), c.Response().Status, time.Since(start), rid, traceID)
			return nil
		}
	}
}
