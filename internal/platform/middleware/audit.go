package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Audit writes one log line per mutating request. Patient data changes need
// a trail independent of the access log.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			switch c.Request().Method {
			case "POST", "PUT", "DELETE":
				rid, _ := c.Get("request_id").(string)
				logger.Info().
					Str("request_id", rid).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Int("status", c.Response().Status).
					Str("remote_ip", c.RealIP()).
					Msg("audit")
			}
			return err
		}
	}
}
