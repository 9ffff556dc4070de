package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/mock"
	"github.com/subplayer/mediacore/log"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyLogRouter(buffer log.BufferWriter) *echo.Echo {
	router := mock.DummyEcho()

	handler := NewLog(buffer)

	router.Add("GET", "/", handler.Log)

	return router
}

func TestLog(t *testing.T) {
	router := getDummyLogRouter(nil)

	response := mock.Request(t, http.StatusOK, router, "GET", "/?format=raw", nil)

	mock.Validate(t, []api.LogEvent{}, response.Data)
}

func TestLogRaw(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 10)

	logger := log.New("Engine").WithOutput(buffer)
	logger.Info().WithField("input", "/media/movie.mkv").Log("transcode started")
	logger.Error().WithError(errors.New("exit status 1")).Log("transcode failed")

	router := getDummyLogRouter(buffer)

	response := mock.Request(t, http.StatusOK, router, "GET", "/?format=raw", nil)

	mock.Validate(t, []api.LogEvent{}, response.Data)

	events := []api.LogEvent{}
	mock.Decode(t, response, &events)

	require.Len(t, events, 2)
	require.Equal(t, "engine", events[0].Component)
	require.Equal(t, "transcode started", events[0].Message)
	require.Equal(t, "/media/movie.mkv", events[0].Data["input"])
	require.Equal(t, "exit status 1", events[1].Data["error"])
}

func TestLogConsole(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 10)

	log.New("Engine").WithOutput(buffer).Warn().Log("ffmpeg not found")

	router := getDummyLogRouter(buffer)

	response := mock.Request(t, http.StatusOK, router, "GET", "/", nil)

	lines := []string{}
	mock.Decode(t, response, &lines)

	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "ffmpeg not found")
}
