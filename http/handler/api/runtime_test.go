package api

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/mock"
	"github.com/subplayer/mediacore/update"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyRuntimeRouter(t *testing.T, updates update.Checker) (*echo.Echo, string) {
	e, dir := dummyEngine(t)

	router := mock.DummyEcho()

	handler := NewRuntime(e, updates)

	router.Add("GET", "/runtime", handler.Exists)
	router.Add("GET", "/runtime/version", handler.Version)
	router.Add("GET", "/runtime/path", handler.Path)
	router.Add("GET", "/runtime/update", handler.Update)
	router.Add("GET", "/datadir", handler.DataDir)

	return router, dir
}

func TestRuntimeExists(t *testing.T) {
	router, _ := getDummyRuntimeRouter(t, nil)

	response := mock.Request(t, http.StatusOK, router, "GET", "/runtime", nil)

	mock.Validate(t, &engine.ExistsResult{}, response.Data)

	result := engine.ExistsResult{}
	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.False(t, result.Exists)
}

func TestRuntimeVersionNotInstalled(t *testing.T) {
	router, _ := getDummyRuntimeRouter(t, nil)

	response := mock.Request(t, http.StatusOK, router, "GET", "/runtime/version", nil)

	result := engine.VersionResult{}
	mock.Decode(t, response, &result)
	require.False(t, result.Success)
	require.Equal(t, engine.ErrNotInstalled.Error(), result.Error)
}

func TestRuntimePaths(t *testing.T) {
	router, dir := getDummyRuntimeRouter(t, nil)

	response := mock.Request(t, http.StatusOK, router, "GET", "/runtime/path", nil)

	mock.Validate(t, &engine.PathResult{}, response.Data)

	result := engine.PathResult{}
	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.Equal(t, filepath.Join(dir, "ffmpeg", "ffmpeg"), result.Path)

	response = mock.Request(t, http.StatusOK, router, "GET", "/datadir", nil)

	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.Equal(t, dir, result.Path)
}

func TestRuntimeUpdateDisabled(t *testing.T) {
	router, _ := getDummyRuntimeRouter(t, nil)

	response := mock.Request(t, http.StatusNotImplemented, router, "GET", "/runtime/update", nil)

	mock.Validate(t, &api.Error{}, response.Data)
	require.Equal(t, "Not Implemented", response.Message)
}

func TestRuntimeUpdate(t *testing.T) {
	checker, err := update.New(update.Config{
		Installed: func(ctx context.Context) (string, bool) {
			return "6.1.1-static", true
		},
		Latest:   "7.1",
		Interval: time.Hour,
	})
	require.NoError(t, err)

	router, _ := getDummyRuntimeRouter(t, checker)

	response := mock.Request(t, http.StatusOK, router, "GET", "/runtime/update", nil)

	mock.Validate(t, &api.Update{}, response.Data)

	result := api.Update{}
	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.True(t, result.UpdateAvailable)
	require.Equal(t, "6.1.1-static", result.Installed)
	require.Equal(t, "7.1", result.Latest)
}

func TestRuntimeUpdateNotInstalled(t *testing.T) {
	checker, err := update.New(update.Config{
		Installed: func(ctx context.Context) (string, bool) {
			return "", false
		},
		Latest: "7.1",
	})
	require.NoError(t, err)

	router, _ := getDummyRuntimeRouter(t, checker)

	response := mock.Request(t, http.StatusOK, router, "GET", "/runtime/update", nil)

	result := api.Update{}
	mock.Decode(t, response, &result)
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
}
