package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"

	"github.com/subplayer/mediacore/encoding/json"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/http/mock"
	"github.com/subplayer/mediacore/log"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

var buildLock sync.Mutex

func dummyServer(t *testing.T, config Config) Server {
	if runtime.GOOS == "windows" {
		t.Skip("the fake ffmpeg relies on signals")
	}

	buildLock.Lock()
	e, err := mock.DummyEngine(".", t.TempDir())
	buildLock.Unlock()
	require.NoError(t, err)

	config.Engine = e
	config.Logger = log.New("HTTP").WithOutput(log.NewBufferWriter(log.Lsilent, 1))

	s, err := NewServer(config)
	require.NoError(t, err)

	return s
}

func TestNewServerWithoutEngine(t *testing.T) {
	_, err := NewServer(Config{})
	require.ErrorIs(t, err, errNoEngine)
}

func TestNewServerInvalidCors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("the fake ffmpeg relies on signals")
	}

	buildLock.Lock()
	e, err := mock.DummyEngine(".", t.TempDir())
	buildLock.Unlock()
	require.NoError(t, err)

	_, err = NewServer(Config{
		Engine:      e,
		CorsOrigins: []string{"ftp://example.com"},
	})
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	s := dummyServer(t, Config{})

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
}

func TestRoutes(t *testing.T) {
	s := dummyServer(t, Config{})

	for _, path := range []string{"/api/v1", "/api/v1/runtime", "/api/v1/runtime/path", "/api/v1/datadir", "/api/v1/transcode", "/api/v1/stats", "/api/v1/log"} {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		require.Equal(t, http.StatusOK, w.Code, path)
		require.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/runtime/update", nil))
	require.Equal(t, http.StatusNotImplemented, w.Code)

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/profiling/", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwagger(t *testing.T) {
	s := dummyServer(t, Config{})

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/api/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/api/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	doc := struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}{}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, "mediacore API", doc.Info.Title)

	for _, path := range []string{"/api/v1", "/api/v1/probe", "/api/v1/recommend", "/api/v1/transcode", "/api/v1/transcode/events", "/api/v1/runtime/download"} {
		require.Contains(t, doc.Paths, path)
	}
}

func TestCompress(t *testing.T) {
	s := dummyServer(t, Config{Compress: true})

	req := httptest.NewRequest("GET", "/api/v1/runtime", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	r, err := gzip.NewReader(w.Body)
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	result := engine.ExistsResult{}
	require.NoError(t, json.Unmarshal(data, &result))
	require.True(t, result.Success)
}

func TestCors(t *testing.T) {
	s := dummyServer(t, Config{CorsOrigins: []string{"tauri://localhost"}})

	req := httptest.NewRequest("GET", "/api/v1/runtime", nil)
	req.Header.Set("Origin", "tauri://localhost")

	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "tauri://localhost", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsAndProfiling(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mediacore_up 1\n"))
	})

	s := dummyServer(t, Config{Metrics: metrics, Profiling: true})

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "mediacore_up 1\n", w.Body.String())

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/profiling/heap?debug=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
}
