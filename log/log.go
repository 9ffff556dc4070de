// Package log provides the structured logger used by all components. It knows
// four levels (debug, info, warn, error) plus silent.
package log

import (
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/subplayer/mediacore/encoding/json"
)

// Level represents a log level
type Level uint

const (
	Lsilent Level = 0
	Lerror  Level = 1
	Lwarn   Level = 2
	Linfo   Level = 3
	Ldebug  Level = 4
)

// String returns a string representing the log level.
func (level Level) String() string {
	names := []string{
		"SILENT",
		"ERROR",
		"WARN",
		"INFO",
		"DEBUG",
	}

	if level > Ldebug {
		return "UNKNOWN"
	}

	return names[level]
}

func (level Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(level.String())
}

// ParseLevel converts a level name as found in the config into a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "silent":
		return Lsilent, nil
	case "error":
		return Lerror, nil
	case "warn", "warning":
		return Lwarn, nil
	case "info":
		return Linfo, nil
	case "debug":
		return Ldebug, nil
	}

	return Lsilent, fmt.Errorf("unknown log level %q", name)
}

type Fields map[string]interface{}

// Logger is an interface that provides means for writing log messages.
//
// A message will be written to an output if the log level of the message
// has the same or a higher severity than the output. Otherwise it will be
// discarded.
//
// The component is a string that represents who wrote the message.
type Logger interface {
	// WithOutput returns a Logger that writes its messages to the writer.
	WithOutput(w Writer) Logger

	// WithComponent returns a new Logger with the given component.
	WithComponent(component string) Logger

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger

	WithError(err error) Logger

	// Log writes the message according to fmt.Printf() with the current level.
	// Without a level the message is written as debug.
	Log(format string, args ...interface{})

	Debug() Logger
	Info() Logger
	Warn() Logger
	Error() Logger

	// Write implements the io.Writer interface. Messages are written with
	// the debug level.
	Write(p []byte) (int, error)

	Close()
}

type logger struct {
	output     Writer
	component  string
	modulePath string
}

// New returns an implementation of the Logger interface.
func New(component string) Logger {
	l := &logger{
		component: component,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		l.modulePath = info.Path
	}

	return l
}

func (l *logger) Close() {
	if l.output != nil {
		l.output.Close()
	}
}

func (l *logger) clone() *logger {
	return &logger{
		output:     l.output,
		component:  l.component,
		modulePath: l.modulePath,
	}
}

func (l *logger) WithOutput(w Writer) Logger {
	clone := l.clone()
	clone.output = w

	return clone
}

func (l *logger) WithComponent(component string) Logger {
	clone := l.clone()
	clone.component = component

	return clone
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return newEvent(l).WithField(key, value)
}

func (l *logger) WithFields(f Fields) Logger {
	return newEvent(l).WithFields(f)
}

func (l *logger) WithError(err error) Logger {
	return newEvent(l).WithError(err)
}

func (l *logger) Log(format string, args ...interface{}) {
	newEvent(l).Log(format, args...)
}

func (l *logger) Debug() Logger { return newEvent(l).Debug() }
func (l *logger) Info() Logger  { return newEvent(l).Info() }
func (l *logger) Warn() Logger  { return newEvent(l).Warn() }
func (l *logger) Error() Logger { return newEvent(l).Error() }

func (l *logger) Write(p []byte) (int, error) {
	return newEvent(l).Write(p)
}

// Event is a single log message with its metadata.
type Event struct {
	logger *logger

	Time      time.Time `json:"ts"`
	Level     Level     `json:"level"`
	Component string    `json:"component"`
	Caller    string    `json:"caller,omitempty"`
	Message   string    `json:"message,omitempty"`

	Data Fields `json:"data,omitempty"`
}

func newEvent(l *logger) *Event {
	return &Event{
		logger:    l,
		Component: l.component,
		Data:      Fields{},
	}
}

func (e *Event) clone() *Event {
	return &Event{
		logger:    e.logger,
		Time:      e.Time,
		Level:     e.Level,
		Component: e.Component,
		Caller:    e.Caller,
		Message:   e.Message,
		Data:      maps.Clone(e.Data),
	}
}

func (e *Event) Close() {
	e.logger.Close()
}

func (e *Event) WithOutput(w Writer) Logger {
	return e.logger.WithOutput(w)
}

func (e *Event) WithComponent(component string) Logger {
	clone := e.clone()
	clone.Component = component

	return clone
}

func (e *Event) Log(format string, args ...interface{}) {
	if e.logger == nil || e.logger.output == nil {
		return
	}

	_, file, line, _ := runtime.Caller(1)
	file = strings.TrimPrefix(file, e.logger.modulePath)

	n := e.clone()
	n.logger = nil
	n.Time = time.Now()
	n.Caller = fmt.Sprintf("%s:%d", file, line)

	if n.Level == Lsilent {
		n.Level = Ldebug
	}

	if len(args) == 0 {
		n.Message = format
	} else {
		n.Message = fmt.Sprintf(format, args...)
	}

	e.logger.output.Write(n)
}

func (e *Event) WithField(key string, value interface{}) Logger {
	return e.WithFields(Fields{key: value})
}

const maxFields = 256

func (e *Event) WithFields(f Fields) Logger {
	if len(e.Data)+len(f) > maxFields {
		return e
	}

	n := e.clone()

	for k, v := range f {
		// Functions can't be formatted and are dropped.
		if t := reflect.TypeOf(v); t != nil && t.Kind() == reflect.Func {
			continue
		}

		n.Data[k] = v
	}

	return n
}

func (e *Event) WithError(err error) Logger {
	if err == nil {
		return e
	}

	return e.WithFields(Fields{
		"error": err,
	})
}

func (e *Event) level(level Level) Logger {
	clone := e.clone()
	clone.Level = level

	return clone
}

func (e *Event) Debug() Logger { return e.level(Ldebug) }
func (e *Event) Info() Logger  { return e.level(Linfo) }
func (e *Event) Warn() Logger  { return e.level(Lwarn) }
func (e *Event) Error() Logger { return e.level(Lerror) }

func (e *Event) Write(p []byte) (int, error) {
	e.Log("%s", strings.TrimSpace(string(p)))

	return len(p), nil
}
