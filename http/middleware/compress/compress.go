// Package compress implements a middleware that compresses responses with
// zstd, brotli, or gzip, depending on what the client accepts.
package compress

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Level int

const (
	DefaultCompression Level = 0
	BestCompression    Level = 1
	BestSpeed          Level = 2
)

// Config defines the config for compress middleware.
type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper

	// Compression level.
	Level Level

	// Schemes in order of preference. Default [zstd, br, gzip].
	Schemes []string

	// List of content types to compress. If empty, everything will be compressed.
	ContentTypes []string
}

var DefaultConfig = Config{
	Skipper: middleware.DefaultSkipper,
	Level:   DefaultCompression,
	Schemes: []string{"zstd", "br", "gzip"},
}

type encoder interface {
	io.WriteCloser
	Flush() error
	Reset(w io.Writer)
}

type pool struct {
	scheme string
	pool   sync.Pool
}

func newPool(scheme string, level Level) *pool {
	p := &pool{scheme: scheme}

	switch scheme {
	case "zstd":
		zstdLevel := zstd.SpeedDefault
		switch level {
		case BestCompression:
			zstdLevel = zstd.SpeedBestCompression
		case BestSpeed:
			zstdLevel = zstd.SpeedFastest
		}

		p.pool.New = func() interface{} {
			w, err := zstd.NewWriter(io.Discard, zstd.WithZeroFrames(true), zstd.WithEncoderLevel(zstdLevel))
			if err != nil {
				return nil
			}
			return w
		}
	case "br":
		brotliLevel := brotli.DefaultCompression
		switch level {
		case BestCompression:
			brotliLevel = brotli.BestCompression
		case BestSpeed:
			brotliLevel = brotli.BestSpeed
		}

		p.pool.New = func() interface{} {
			return brotli.NewWriterLevel(io.Discard, brotliLevel)
		}
	case "gzip":
		gzipLevel := gzip.DefaultCompression
		switch level {
		case BestCompression:
			gzipLevel = gzip.BestCompression
		case BestSpeed:
			gzipLevel = gzip.BestSpeed
		}

		p.pool.New = func() interface{} {
			w, err := gzip.NewWriterLevel(io.Discard, gzipLevel)
			if err != nil {
				return nil
			}
			return w
		}
	default:
		return nil
	}

	return p
}

func (p *pool) acquire(w io.Writer) encoder {
	enc, ok := p.pool.Get().(encoder)
	if !ok || enc == nil {
		return nil
	}

	enc.Reset(w)

	return enc
}

func (p *pool) release(enc encoder) {
	enc.Reset(io.Discard)
	p.pool.Put(enc)
}

func New() echo.MiddlewareFunc {
	return NewWithConfig(DefaultConfig)
}

// NewWithConfig return compress middleware with config.
func NewWithConfig(config Config) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultConfig.Skipper
	}

	if len(config.Schemes) == 0 {
		config.Schemes = DefaultConfig.Schemes
	}

	pools := []*pool{}

	for _, scheme := range config.Schemes {
		if p := newPool(scheme, config.Level); p != nil {
			pools = append(pools, p)
		}
	}

	contentTypes := append([]string{}, config.ContentTypes...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			accepted := acceptedEncodings(c.Request().Header.Get(echo.HeaderAcceptEncoding))

			var p *pool
			for _, candidate := range pools {
				if accepted[candidate.scheme] {
					p = candidate
					break
				}
			}

			res := c.Response()
			res.Header().Add(echo.HeaderVary, echo.HeaderAcceptEncoding)

			if p == nil {
				return next(c)
			}

			rw := res.Writer

			w := &responseWriter{
				ResponseWriter: rw,
				pool:           p,
				contentTypes:   contentTypes,
			}

			res.Writer = w

			defer func() {
				w.close()
				res.Writer = rw
			}()

			return next(c)
		}
	}
}

// acceptedEncodings parses the Accept-Encoding header. Encodings with q=0
// are not accepted.
func acceptedEncodings(header string) map[string]bool {
	accepted := map[string]bool{}

	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if len(name) == 0 {
			continue
		}

		q := strings.ReplaceAll(params, " ", "")
		if q == "q=0" || q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}

		accepted[strings.ToLower(name)] = true
	}

	return accepted
}

type responseWriter struct {
	http.ResponseWriter

	pool         *pool
	encoder      encoder
	contentTypes []string
	wroteHeader  bool
}

func (w *responseWriter) canCompress(code int) bool {
	if code < http.StatusOK || code == http.StatusNoContent || code == http.StatusNotModified {
		return false
	}

	if len(w.Header().Get(echo.HeaderContentEncoding)) != 0 {
		return false
	}

	if len(w.contentTypes) == 0 {
		return true
	}

	contentType := w.Header().Get(echo.HeaderContentType)

	for _, t := range w.contentTypes {
		if strings.Contains(contentType, t) {
			return true
		}
	}

	return false
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}

	w.wroteHeader = true

	if w.canCompress(code) {
		w.encoder = w.pool.acquire(w.ResponseWriter)
	}

	if w.encoder != nil {
		w.Header().Set(echo.HeaderContentEncoding, w.pool.scheme)
		w.Header().Del(echo.HeaderContentLength)
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.Header().Get(echo.HeaderContentType) == "" {
		w.Header().Set(echo.HeaderContentType, http.DetectContentType(b))
	}

	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.encoder == nil {
		return w.ResponseWriter.Write(b)
	}

	return w.encoder.Write(b)
}

func (w *responseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.encoder != nil {
		w.encoder.Flush()
	}

	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *responseWriter) close() {
	if w.encoder == nil {
		return
	}

	w.encoder.Close()
	w.pool.release(w.encoder)
	w.encoder = nil
}

func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
