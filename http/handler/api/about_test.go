package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/subplayer/mediacore/app"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/mock"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyAboutRouter(t *testing.T) *echo.Echo {
	e, _ := dummyEngine(t)

	router := mock.DummyEcho()

	handler := NewAbout(AboutConfig{
		ID:        "d1b5fa1c-0b6a-4a5e-9c4e-6d4e2f1b7a10",
		Name:      "living-room",
		CreatedAt: time.Now().Add(-time.Minute),
		Profile:   "chromium",
		Engine:    e,
	})

	router.Add("GET", "/", handler.About)

	return router
}

func TestAbout(t *testing.T) {
	router := getDummyAboutRouter(t)

	response := mock.Request(t, http.StatusOK, router, "GET", "/", nil)

	mock.Validate(t, &api.About{}, response.Data)

	about := api.About{}
	mock.Decode(t, response, &about)

	require.Equal(t, app.Name, about.App)
	require.Equal(t, "living-room", about.Name)
	require.Equal(t, app.Version.String(), about.Version.Number)
	require.GreaterOrEqual(t, about.Uptime, uint64(60))
	require.Equal(t, "chromium", about.FFmpeg.Profile)
	require.NotEmpty(t, about.FFmpeg.Binary)
	require.False(t, about.FFmpeg.Installed)
}
