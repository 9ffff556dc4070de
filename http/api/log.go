package api

import (
	"fmt"
	"strings"

	"github.com/subplayer/mediacore/encoding/json"
	"github.com/subplayer/mediacore/log"
)

// LogEvent is a single entry of the application log.
type LogEvent struct {
	Timestamp int64             `json:"ts" format:"int64"`
	Level     string            `json:"level"`
	Component string            `json:"component"`
	Message   string            `json:"message"`
	Caller    string            `json:"caller"`
	Data      map[string]string `json:"data"`
}

// Unmarshal converts a log event. All data values are turned into strings.
func (e *LogEvent) Unmarshal(evt *log.Event) {
	e.Timestamp = evt.Time.Unix()
	e.Level = evt.Level.String()
	e.Component = strings.ToLower(evt.Component)
	e.Message = evt.Message
	e.Caller = evt.Caller

	e.Data = make(map[string]string, len(evt.Data))

	for k, v := range evt.Data {
		var value string

		switch val := v.(type) {
		case string:
			value = val
		case error:
			value = val.Error()
		case fmt.Stringer:
			value = val.String()
		default:
			if jsonvalue, err := json.Marshal(v); err == nil {
				value = string(jsonvalue)
			} else {
				value = err.Error()
			}
		}

		e.Data[k] = value
	}
}
