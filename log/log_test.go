package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelNames(t *testing.T) {
	require.Equal(t, "DEBUG", Ldebug.String())
	require.Equal(t, "ERROR", Lerror.String())
	require.Equal(t, "WARN", Lwarn.String())
	require.Equal(t, "INFO", Linfo.String())
	require.Equal(t, "SILENT", Lsilent.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, Lwarn, level)

	level, err = ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, Ldebug, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestColorOnlyOnTerminal(t *testing.T) {
	var buffer bytes.Buffer

	w := NewConsoleWriter(&buffer, Linfo, true).(*syncWriter)
	formatter := w.writer.(*formatWriter).formatter.(*consoleFormatter)

	require.False(t, formatter.color)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level   Level
		written []bool
	}{
		{Lsilent, []bool{false, false, false, false}},
		{Lerror, []bool{false, false, false, true}},
		{Lwarn, []bool{false, false, true, true}},
		{Linfo, []bool{false, true, true, true}},
		{Ldebug, []bool{true, true, true, true}},
	}

	for _, tc := range tests {
		t.Run(tc.level.String(), func(t *testing.T) {
			var buffer bytes.Buffer

			logger := New("test").WithOutput(NewConsoleWriter(&buffer, tc.level, false))

			write := []func(){
				func() { logger.Debug().Log("debug") },
				func() { logger.Info().Log("info") },
				func() { logger.Warn().Log("warn") },
				func() { logger.Error().Log("error") },
			}

			for i, w := range write {
				buffer.Reset()
				w()
				require.Equal(t, tc.written[i], buffer.Len() != 0, "message %d", i)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	var buffer bytes.Buffer

	logger := New("Probe").WithOutput(NewConsoleWriter(&buffer, Linfo, false))
	logger.Info().Log("info")

	require.Contains(t, buffer.String(), `component="Probe"`)

	buffer.Reset()

	logger.WithComponent("Process").Info().Log("info")
	require.Contains(t, buffer.String(), `component="Process"`)
}

func TestFields(t *testing.T) {
	var buffer bytes.Buffer

	logger := New("test").WithOutput(NewConsoleWriter(&buffer, Ldebug, false))

	logger.WithFields(Fields{
		"path":   "/tmp/a.mkv",
		"copy":   true,
		"frames": 42,
		"func":   func() {},
	}).WithError(errors.New("broken")).Warn().Log("with %d args", 1)

	line := buffer.String()

	require.Contains(t, line, `msg="with 1 args"`)
	require.Contains(t, line, `path="/tmp/a.mkv"`)
	require.Contains(t, line, `copy=true`)
	require.Contains(t, line, `frames=42`)
	require.Contains(t, line, `error="broken"`)
	require.NotContains(t, line, `func=`)
}

func TestFieldsDontLeak(t *testing.T) {
	var buffer bytes.Buffer

	logger := New("test").WithOutput(NewConsoleWriter(&buffer, Ldebug, false))

	withField := logger.WithField("foo", "bar")
	withField.WithField("baz", 1).Info().Log("first")

	buffer.Reset()

	withField.Info().Log("second")
	require.Contains(t, buffer.String(), `foo="bar"`)
	require.NotContains(t, buffer.String(), `baz=`)
}

func TestWithoutOutput(t *testing.T) {
	logger := New("test")

	require.NotPanics(t, func() {
		logger.Info().Log("nobody listens")
		logger.Close()
	})
}
