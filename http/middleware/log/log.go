// Package log implements a logging middleware
package log

import (
	"net/http"
	"time"

	"github.com/subplayer/mediacore/log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"
)

// HeaderRequestID carries the ID of a request. An ID sent by the client
// is kept.
const HeaderRequestID = echo.HeaderXRequestID

type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper
	Logger  log.Logger
}

var DefaultConfig = Config{
	Skipper: middleware.DefaultSkipper,
	Logger:  log.New("HTTP"),
}

// NewWithConfig returns a middleware for logging HTTP requests
func NewWithConfig(config Config) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultConfig.Skipper
	}

	if config.Logger == nil {
		config.Logger = DefaultConfig.Logger
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(HeaderRequestID)
			if len(id) == 0 {
				id = shortuuid.New()
			}

			res.Header().Set(HeaderRequestID, id)

			if err := next(c); err != nil {
				c.Error(err)
			}

			path := req.URL.Path
			if raw := req.URL.RawQuery; raw != "" {
				path = path + "?" + raw
			}

			logger := config.Logger.WithFields(log.Fields{
				"id":          id,
				"client":      c.RealIP(),
				"method":      req.Method,
				"path":        path,
				"status":      res.Status,
				"status_text": http.StatusText(res.Status),
				"size_bytes":  res.Size,
				"latency_ms":  time.Since(start).Milliseconds(),
				"user_agent":  req.Header.Get("User-Agent"),
			})

			if res.Status >= 400 {
				logger.Warn().Log("")
				return nil
			}

			logger.Debug().Log("")

			return nil
		}
	}
}
