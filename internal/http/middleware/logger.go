package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"taskdesk/internal/logger"
)

// LoggerLocalKey stores the request-scoped logger in Fiber's context locals.
const LoggerLocalKey = "logger"

// Logger logs each HTTP request as one JSON object with request_id, method,
// path, status and latency (milliseconds). Server errors log at error level,
// client errors at warn.
//
// Handlers can fetch a logger already carrying request_id (and trace_id when a
// span is active) via LoggerFrom.
func Logger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		lc := base.With().Str("request_id", RequestIDFrom(c))
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			lc = lc.Str("trace_id", sc.TraceID().String())
		}
		reqLog := lc.Logger()
		c.Locals(LoggerLocalKey, &reqLog)

		err := c.Next()

		// The error handler has not run yet; derive the final status from err.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		ev := reqLog.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = reqLog.Error()
		case status >= fiber.StatusBadRequest:
			ev = reqLog.Warn()
		}
		if uid := UserID(c); uid != "" {
			ev = ev.Str("user_id", uid)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Send()

		return err
	}
}

// LoggerWithWriter is Logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logger.New(w, loc, "info"))
}

// LoggerFrom returns the request-scoped logger, or a disabled logger outside Logger.
func LoggerFrom(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(LoggerLocalKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
