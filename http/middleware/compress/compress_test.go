package compress

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var payload = strings.Repeat(`{"success":true,"path":"/media/映画.mkv"}`, 100)

func newRouter(config Config) *echo.Echo {
	router := echo.New()
	router.Use(NewWithConfig(config))

	router.GET("/json", func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(payload))
	})

	router.GET("/text", func(c echo.Context) error {
		return c.String(http.StatusOK, payload)
	})

	router.GET("/empty", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	return router
}

func request(router *echo.Echo, path, encoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(encoding) != 0 {
		req.Header.Set(echo.HeaderAcceptEncoding, encoding)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, scheme string, body []byte) string {
	var r io.Reader

	switch scheme {
	case "gzip":
		gr, err := gzip.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		r = gr
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	case "br":
		r = brotli.NewReader(bytes.NewReader(body))
	}

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(data)
}

func TestSchemes(t *testing.T) {
	router := newRouter(DefaultConfig)

	tests := []struct {
		accept string
		scheme string
	}{
		{"gzip", "gzip"},
		{"br", "br"},
		{"zstd", "zstd"},
		{"gzip, deflate, br", "br"},
		{"gzip, br, zstd", "zstd"},
		{"zstd;q=0, gzip", "gzip"},
	}

	for _, tc := range tests {
		t.Run(tc.accept, func(t *testing.T) {
			rec := request(router, "/json", tc.accept)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.scheme, rec.Header().Get(echo.HeaderContentEncoding))
			require.Contains(t, rec.Header().Values(echo.HeaderVary), echo.HeaderAcceptEncoding)
			require.Less(t, rec.Body.Len(), len(payload))
			require.Equal(t, payload, decode(t, tc.scheme, rec.Body.Bytes()))
		})
	}
}

func TestIdentity(t *testing.T) {
	router := newRouter(DefaultConfig)

	rec := request(router, "/json", "")
	require.Empty(t, rec.Header().Get(echo.HeaderContentEncoding))
	require.Equal(t, payload, rec.Body.String())

	rec = request(router, "/json", "deflate")
	require.Empty(t, rec.Header().Get(echo.HeaderContentEncoding))
	require.Equal(t, payload, rec.Body.String())
}

func TestContentTypes(t *testing.T) {
	router := newRouter(Config{
		Schemes:      []string{"gzip"},
		ContentTypes: []string{echo.MIMEApplicationJSON},
	})

	rec := request(router, "/json", "gzip")
	require.Equal(t, "gzip", rec.Header().Get(echo.HeaderContentEncoding))

	rec = request(router, "/text", "gzip")
	require.Empty(t, rec.Header().Get(echo.HeaderContentEncoding))
	require.Equal(t, payload, rec.Body.String())
}

func TestNoContent(t *testing.T) {
	router := newRouter(DefaultConfig)

	rec := request(router, "/empty", "gzip")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get(echo.HeaderContentEncoding))
	require.Zero(t, rec.Body.Len())
}

func TestAcceptedEncodings(t *testing.T) {
	accepted := acceptedEncodings("gzip;q=1.0, BR, zstd;q=0, , identity")

	require.Equal(t, map[string]bool{
		"gzip":     true,
		"br":       true,
		"identity": true,
	}, accepted)
}
