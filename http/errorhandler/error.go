// Package errorhandler turns the errors of echo handlers into the error envelope.
package errorhandler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/subplayer/mediacore/http/api"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler is a general handler for echo handler errors
func HTTPErrorHandler(err error, c echo.Context) {
	var code int
	var details []string
	message := ""

	var apiErr api.Error
	var httpErr *echo.HTTPError
	var validationErr validator.ValidationErrors

	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
		message = apiErr.Message
		details = apiErr.Details
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
		message = "invalid request"
		for _, fe := range validationErr {
			details = append(details, fmt.Sprintf("%s: failed on %s", fe.Namespace(), fe.Tag()))
		}
	case errors.As(err, &httpErr):
		if httpErr.Internal != nil {
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
		}

		code = httpErr.Code
		message = http.StatusText(httpErr.Code)
		details = strings.Split(fmt.Sprintf("%v", httpErr.Message), "\n")
	default:
		code = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
		details = strings.Split(err.Error(), "\n")
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}

	c.JSON(code, api.Error{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	})
}
