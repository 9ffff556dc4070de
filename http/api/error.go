package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the envelope of a rejected request. It carries the same success
// and error fields as a failed command, plus the HTTP status and details.
type Error struct {
	Success bool     `json:"success"`
	Code    int      `json:"code" jsonschema:"required" format:"int"`
	Message string   `json:"error" jsonschema:"required"`
	Details []string `json:"details" jsonschema:""`
}

func (e Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}

	return fmt.Sprintf("%d %s: %s", e.Code, e.Message, strings.Join(e.Details, "; "))
}

// Err returns an Error for the HTTP status code. An empty message is
// replaced by the status text. A leading string in args is used as format
// for the remaining args, the result is split into lines for the details.
func Err(code int, message string, args ...interface{}) Error {
	e := Error{
		Code:    code,
		Message: message,
		Details: []string{},
	}

	if len(e.Message) == 0 {
		e.Message = http.StatusText(code)
	}

	if len(args) == 0 {
		return e
	}

	format, ok := args[0].(string)
	if !ok {
		return e
	}

	for _, line := range strings.Split(fmt.Sprintf(format, args[1:]...), "\n") {
		if line = strings.TrimSpace(line); len(line) != 0 {
			e.Details = append(e.Details, line)
		}
	}

	return e
}
