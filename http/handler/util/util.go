// Package util has helpers for binding requests in echo handlers.
package util

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/subplayer/mediacore/encoding/json"

	"github.com/labstack/echo/v4"
)

// MaxBodySize is the largest accepted request body.
const MaxBodySize = 1 << 20

// ShouldBindJSON binds the body data of the request to the given object. An error is
// returned if the body data is not valid JSON or the validation of the unmarshalled
// data failed.
func ShouldBindJSON(c echo.Context, obj interface{}) error {
	req := c.Request()

	if req.ContentLength == 0 {
		return fmt.Errorf("request doesn't contain any content")
	}

	ctype := req.Header.Get(echo.HeaderContentType)

	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return fmt.Errorf("request doesn't contain JSON content")
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, MaxBodySize))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, obj); err != nil {
		return err
	}

	return c.Validate(obj)
}

// DefaultQuery returns the unescaped query parameter or defValue if it is
// missing or malformed.
func DefaultQuery(c echo.Context, name, defValue string) string {
	param := c.QueryParam(name)

	if len(param) == 0 {
		return defValue
	}

	param, err := url.QueryUnescape(param)
	if err != nil {
		return defValue
	}

	return param
}
