package api

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/mock"
	"github.com/subplayer/mediacore/net/url"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyMediaRouter(t *testing.T) *echo.Echo {
	e, _ := dummyEngine(t)

	router := mock.DummyEcho()

	handler := NewMedia(e)

	router.Add("POST", "/probe", handler.Probe)
	router.Add("POST", "/recommend", handler.Recommend)

	return router
}

func TestProbe(t *testing.T) {
	router := getDummyMediaRouter(t)

	response := mock.RequestJSON(t, http.StatusOK, router, "POST", "/probe", api.ProbeRequest{
		Path: url.ToFileURL("/media/Sérïes/Épisode 01 #1.mkv"),
	})

	mock.Validate(t, &engine.VideoInfoResult{}, response.Data)

	result := engine.VideoInfoResult{}
	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.Equal(t, "hevc", result.Info.VideoCodec)
	require.Equal(t, "aac", result.Info.AudioCodec)
	require.Equal(t, "mkv", result.Info.Container)
}

func TestProbeFailure(t *testing.T) {
	router := getDummyMediaRouter(t)

	response := mock.RequestJSON(t, http.StatusOK, router, "POST", "/probe", api.ProbeRequest{
		Path: "/media/noinfo.mkv",
	})

	result := engine.VideoInfoResult{}
	mock.Decode(t, response, &result)
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
	require.Nil(t, result.Info)
}

func TestProbeInvalidRequest(t *testing.T) {
	router := getDummyMediaRouter(t)

	response := mock.Request(t, http.StatusBadRequest, router, "POST", "/probe", bytes.NewReader([]byte(`{}`)))
	mock.Validate(t, &api.Error{}, response.Data)

	response = mock.Request(t, http.StatusBadRequest, router, "POST", "/probe", bytes.NewReader([]byte(`{"path":`)))
	mock.Validate(t, &api.Error{}, response.Data)

	response = mock.Request(t, http.StatusBadRequest, router, "POST", "/probe", nil)
	mock.Validate(t, &api.Error{}, response.Data)

	e := api.Error{}
	mock.Decode(t, response, &e)
	require.False(t, e.Success)
	require.Equal(t, http.StatusBadRequest, e.Code)
}

func TestRecommend(t *testing.T) {
	router := getDummyMediaRouter(t)

	response := mock.RequestJSON(t, http.StatusOK, router, "POST", "/recommend", api.RecommendRequest{
		Path: "/media/movie.mkv",
	})

	result := engine.RecommendResult{}
	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.Equal(t, decision.VideoOnly, result.Strategy)
	require.True(t, result.CanExecute)
	require.NotEmpty(t, result.Text)
	require.Equal(t, "/media/movie.mkv", result.Decision.Path)

	data := response.Data.(map[string]interface{})
	require.Equal(t, "video_only", data["strategy"])
	require.Contains(t, data, "recommendation")
	require.Contains(t, data, "canExecute")
}

func TestRecommendBatch(t *testing.T) {
	router := getDummyMediaRouter(t)

	paths := []string{
		"/media/a.mkv",
		url.ToFileURL("/media/ß ü.mkv"),
		"/media/crash.mkv",
	}

	response := mock.RequestJSON(t, http.StatusOK, router, "POST", "/recommend", api.RecommendRequest{
		Paths: paths,
	})

	result := struct {
		Success bool                              `json:"success"`
		Results map[string]engine.RecommendResult `json:"results"`
	}{}

	mock.Decode(t, response, &result)
	require.True(t, result.Success)
	require.Len(t, result.Results, 3)

	for _, p := range paths {
		require.Contains(t, result.Results, p)
		require.True(t, result.Results[p].Success)
	}

	require.Equal(t, decision.FullTranscode, result.Results["/media/crash.mkv"].Strategy)
}

func TestRecommendInvalidRequest(t *testing.T) {
	router := getDummyMediaRouter(t)

	mock.Request(t, http.StatusBadRequest, router, "POST", "/recommend", bytes.NewReader([]byte(`{}`)))
	mock.Request(t, http.StatusBadRequest, router, "POST", "/recommend", bytes.NewReader([]byte(`{"paths":[""]}`)))
}
