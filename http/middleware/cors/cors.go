// Package cors implements a CORS middleware with validated origins.
package cors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Schemes are the allowed schemes for CORS origins. The tauri scheme is used
// by desktop webviews.
var Schemes = []string{
	"http://",
	"https://",
	"tauri://",
}

type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper
	Origins []string
}

// Validate checks a list of origins if they comply with the allowed schemes.
func Validate(origins []string) error {
	for _, origin := range origins {
		if strings.Contains(origin, "*") {
			continue
		}

		if !hasScheme(origin) {
			return errors.New("bad origin: origins must contain '*' or include " + strings.Join(Schemes, ", or "))
		}
	}

	return nil
}

func hasScheme(origin string) bool {
	for _, scheme := range Schemes {
		if strings.HasPrefix(origin, scheme) {
			return true
		}
	}

	return false
}

func NewWithConfig(config Config) (echo.MiddlewareFunc, error) {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	if err := Validate(config.Origins); err != nil {
		return nil, fmt.Errorf("CORS config is invalid: %w", err)
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:       config.Skipper,
		AllowOrigins:  config.Origins,
		AllowMethods:  []string{"GET", "HEAD", "POST", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", echo.HeaderXRequestID},
		ExposeHeaders: []string{"Content-Length", echo.HeaderXRequestID},
		MaxAge:        int((24 * time.Hour).Seconds()),
	}), nil
}
