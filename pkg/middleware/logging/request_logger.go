package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_cart/pkg/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// writes one line per completed request. Errors returned by handlers are
// rendered here so the logged status is the one the client saw.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
			}

			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			dur := time.Since(start).Milliseconds()
			switch {
			case err != nil:
				l.Error("request completed", "status", status, "duration_ms", dur, "error", err.Error())
			case status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur)
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur)
			default:
				l.Info("request completed", "status", status, "duration_ms", dur, "bytes", c.Response().Size)
			}
			return nil
		}
	}
}
