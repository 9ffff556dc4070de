package log

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/subplayer/mediacore/encoding/json"
)

type Formatter interface {
	Bytes(e *Event) []byte
	String(e *Event) string
}

type jsonFormatter struct{}

func NewJSONFormatter() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Bytes(e *Event) []byte {
	n := e.clone()

	for k, v := range n.Data {
		if err, ok := v.(error); ok {
			n.Data[k] = err.Error()
		}
	}

	data, err := json.Marshal(n)
	if err != nil {
		data, _ = json.Marshal(map[string]string{
			"ts":        n.Time.Format(time.RFC3339),
			"component": n.Component,
			"message":   n.Message,
			"error":     err.Error(),
		})
	}

	return append(data, '\n')
}

func (f *jsonFormatter) String(e *Event) string {
	return string(f.Bytes(e))
}

type consoleFormatter struct {
	color bool
}

func NewConsoleFormatter(useColor bool) Formatter {
	return &consoleFormatter{
		color: useColor,
	}
}

func (f *consoleFormatter) Bytes(e *Event) []byte {
	return []byte(f.String(e))
}

func (f *consoleFormatter) String(e *Event) string {
	datetime := e.Time.UTC().Format(time.RFC3339)
	level := e.Level.String()

	if f.color {
		switch e.Level {
		case Ldebug:
			level = "\033[35m" + level + "\033[0m"
		case Linfo:
			level = "\033[34m" + level + "\033[0m"
		case Lwarn:
			level = "\033[33m" + level + "\033[0m"
		case Lerror:
			level = "\033[31m" + level + "\033[0m"
		}
	}

	message := f.writeKV("ts", datetime) + " " + f.writeKV("level", level) + " " + f.writeKV("component", strconv.Quote(e.Component))

	if len(e.Message) != 0 {
		message += " " + f.writeKV("msg", strconv.Quote(e.Message))
	}

	keys := make([]string, 0, len(e.Data))
	for key := range e.Data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		message += " " + f.writeKV(key, f.value(e.Data[key]))
	}

	return message + "\n"
}

func (f *consoleFormatter) value(value interface{}) string {
	switch val := value.(type) {
	case bool:
		return strconv.FormatBool(val)
	case string:
		return strconv.Quote(val)
	case error:
		return strconv.Quote(val.Error())
	case fmt.Stringer:
		return strconv.Quote(val.String())
	}

	data, err := json.Marshal(value)
	if err != nil {
		return strconv.Quote(err.Error())
	}

	return string(data)
}

func (f *consoleFormatter) writeKV(key string, value string) string {
	if !f.color {
		return key + "=" + value
	}

	if key == "error" {
		value = "\033[31m" + value + "\033[0m"
	}

	return "\033[90m" + key + "=\033[0m" + value
}
