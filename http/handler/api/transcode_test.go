package api

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/subplayer/mediacore/encoding/json"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/api"
	"github.com/subplayer/mediacore/http/mock"
	"github.com/subplayer/mediacore/net/url"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyTranscodeRouter(t *testing.T) (*echo.Echo, string) {
	e, dir := dummyEngine(t)

	router := mock.DummyEcho()

	handler := NewTranscode(e)
	handler.keepalive = 50 * time.Millisecond

	router.Add("GET", "/transcode", handler.Status)
	router.Add("POST", "/transcode", handler.Start)
	router.Add("DELETE", "/transcode", handler.Cancel)
	router.Add("GET", "/transcode/events", handler.Events)
	router.Add("GET", "/stats", handler.Stats)

	return router, dir
}

func TestTranscode(t *testing.T) {
	router, dir := getDummyTranscodeRouter(t)

	input := filepath.Join(dir, "Ünïcödé", "Fïlm (2021).mkv")
	output := filepath.Join(dir, "出力", "映画 100%.mp4")

	response := mock.RequestJSON(t, http.StatusOK, router, "POST", "/transcode", api.TranscodeRequest{
		Input:  url.ToFileURL(input),
		Output: url.ToFileURL(output),
	})

	mock.Validate(t, &engine.TranscodeResult{}, response.Data)

	result := engine.TranscodeResult{}
	mock.Decode(t, response, &result)
	require.True(t, result.Success, result.Error)
	require.False(t, result.Cancelled)
	require.True(t, strings.HasPrefix(result.OutputPath, "file:///"))

	path, err := url.ToLocalPath(result.OutputPath)
	require.NoError(t, err)
	require.Equal(t, output, path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	response = mock.Request(t, http.StatusOK, router, "GET", "/stats", nil)

	stats := struct {
		Success bool         `json:"success"`
		Stats   engine.Stats `json:"stats"`
	}{}
	mock.Decode(t, response, &stats)
	require.True(t, stats.Success)
	require.Equal(t, uint64(1), stats.Stats.Transcodes.Completed)
}

func TestTranscodeFailed(t *testing.T) {
	router, dir := getDummyTranscodeRouter(t)

	response := mock.RequestJSON(t, http.StatusOK, router, "POST", "/transcode", api.TranscodeRequest{
		Input: filepath.Join(dir, "fail.mkv"),
	})

	result := engine.TranscodeResult{}
	mock.Decode(t, response, &result)
	require.False(t, result.Success)
	require.False(t, result.Cancelled)
	require.Contains(t, result.Error, "Conversion failed!")
}

func TestTranscodeInvalidRequest(t *testing.T) {
	router, dir := getDummyTranscodeRouter(t)

	mock.Request(t, http.StatusBadRequest, router, "POST", "/transcode", bytes.NewReader([]byte(`{"output":"x.mp4"}`)))

	response := mock.RequestJSON(t, http.StatusBadRequest, router, "POST", "/transcode", api.TranscodeRequest{
		Input:   filepath.Join(dir, "movie.mkv"),
		Options: &api.TranscodeOptions{VideoCodec: "libx264", CRF: 99},
	})

	e := api.Error{}
	mock.Decode(t, response, &e)
	require.Contains(t, strings.Join(e.Details, " "), "crf")
}

func TestCancelIdle(t *testing.T) {
	router, _ := getDummyTranscodeRouter(t)

	response := mock.Request(t, http.StatusOK, router, "DELETE", "/transcode", nil)

	result := engine.Result{}
	mock.Decode(t, response, &result)
	require.False(t, result.Success)
	require.Equal(t, engine.ErrNotRunning.Error(), result.Error)
}

func TestStatusIdle(t *testing.T) {
	router, _ := getDummyTranscodeRouter(t)

	response := mock.Request(t, http.StatusOK, router, "GET", "/transcode", nil)

	state := api.TranscodeState{}
	mock.Decode(t, response, &state)
	require.True(t, state.Success)
	require.False(t, state.Running)
	require.Nil(t, state.Status)
}

func TestTranscodeCancel(t *testing.T) {
	router, dir := getDummyTranscodeRouter(t)

	input := filepath.Join(dir, "hang.mkv")

	done := make(chan *mock.Response, 1)

	go func() {
		done <- mock.RequestJSON(t, http.StatusOK, router, "POST", "/transcode", api.TranscodeRequest{
			Input: input,
		})
	}()

	state := api.TranscodeState{}

	require.Eventually(t, func() bool {
		response := mock.Request(t, http.StatusOK, router, "GET", "/transcode", nil)
		mock.Decode(t, response, &state)
		return state.Running && state.Status.Progress != nil
	}, 10*time.Second, 20*time.Millisecond)

	require.Equal(t, url.ToFileURL(input), state.Status.Input)
	require.Equal(t, "video_only", state.Status.Strategy)
	require.NotZero(t, state.Status.PID)

	response := mock.Request(t, http.StatusOK, router, "DELETE", "/transcode", nil)

	cancel := engine.Result{}
	mock.Decode(t, response, &cancel)
	require.True(t, cancel.Success)

	select {
	case response = <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("transcode didn't return")
	}

	result := engine.TranscodeResult{}
	mock.Decode(t, response, &result)
	require.False(t, result.Success)
	require.True(t, result.Cancelled)
	require.True(t, strings.HasPrefix(result.Error, engine.CancelledPrefix))
}

func TestEvents(t *testing.T) {
	router, dir := getDummyTranscodeRouter(t)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", server.URL+"/transcode/events", nil)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, strings.HasPrefix(res.Header.Get(echo.HeaderContentType), "text/event-stream"))

	scanner := bufio.NewScanner(res.Body)

	// The stream starts with a keepalive, after that the subscription exists.
	require.True(t, scanner.Scan())
	require.Equal(t, ":keepalive", scanner.Text())

	input := filepath.Join(dir, "Фильм.mkv")

	go func() {
		data, _ := json.Marshal(api.TranscodeRequest{Input: input})
		res, err := http.Post(server.URL+"/transcode", "application/json", bytes.NewReader(data))
		if err == nil {
			res.Body.Close()
		}
	}()

	names := []string{}
	var completed engine.Event

	for scanner.Scan() {
		line := scanner.Text()

		if name, found := strings.CutPrefix(line, "event: "); found {
			names = append(names, name)
			continue
		}

		if data, found := strings.CutPrefix(line, "data: "); found {
			event := engine.Event{}
			require.NoError(t, json.Unmarshal([]byte(data), &event))

			if event.Type == engine.EventCompleted {
				completed = event
				break
			}
		}
	}

	require.Contains(t, names, engine.EventProgress)
	require.Equal(t, engine.EventCompleted, names[len(names)-1])
	require.Equal(t, url.ToFileURL(input), completed.Input)
}
