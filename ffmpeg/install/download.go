package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/subplayer/mediacore/log"

	"github.com/fujiwara/shapeio"
	"github.com/hashicorp/go-retryablehttp"
)

func (m *Manager) client() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = m.retries
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 5 * time.Second
	client.Logger = &retryLogger{logger: m.logger}

	dialer := &net.Dialer{
		Timeout:   m.connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	client.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   m.connectTimeout,
			ResponseHeaderTimeout: m.connectTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > m.maxRedirects {
				return ErrTooManyRedirects
			}

			return nil
		},
	}

	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		if errors.Is(err, ErrTooManyRedirects) {
			return false, err
		}

		// The connect deadline is final, only refused or reset
		// connections are retried.
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return false, err
		}

		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	return client
}

// download writes the archive to path.
func (m *Manager) download(ctx context.Context, path string, onProgress func(float64)) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, m.platform.URL, nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: "download", Err: err}
	}

	resp, err := m.client().Do(req)
	if err != nil {
		return m.downloadError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindNetwork, Op: "download", Err: fmt.Errorf("%s: unexpected status %s", m.platform.URL, resp.Status)}
	}

	file, err := os.Create(path)
	if err != nil {
		return &Error{Kind: KindInstall, Op: "download", Err: err}
	}
	defer file.Close()

	var reader io.Reader = resp.Body

	if m.rateLimit > 0 {
		shapedReader := shapeio.NewReaderWithContext(reader, ctx)
		shapedReader.SetRateLimit(float64(m.rateLimit) * 1024 / 8) // kbit to bytes

		reader = shapedReader
	}

	writer := &progressWriter{
		total:      resp.ContentLength,
		onProgress: onProgress,
	}

	if _, err := io.Copy(io.MultiWriter(file, writer), reader); err != nil {
		return m.downloadError(ctx, err)
	}

	if err := file.Close(); err != nil {
		return &Error{Kind: KindInstall, Op: "download", Err: err}
	}

	return nil
}

// downloadError classifies an error of the request or the transfer.
func (m *Manager) downloadError(ctx context.Context, err error) error {
	if errors.Is(err, ErrTooManyRedirects) {
		return &Error{Kind: KindRedirect, Op: "download", Err: fmt.Errorf("more than %d: %w", m.maxRedirects, ErrTooManyRedirects)}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Op: "download", Err: fmt.Errorf("after %s: %w", m.timeout, ErrDownloadTimeout)}
	}

	if ctx.Err() != nil {
		return &Error{Kind: KindNetwork, Op: "download", Err: ctx.Err()}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Op: "download", Err: fmt.Errorf("after %s: %w", m.connectTimeout, ErrConnectTimeout)}
	}

	return &Error{Kind: KindNetwork, Op: "download", Err: err}
}

type progressWriter struct {
	total      int64
	written    int64
	onProgress func(float64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))

	if w.total > 0 && w.onProgress != nil {
		percent := 100 * float64(w.written) / float64(w.total)
		if percent > 100 {
			percent = 100
		}

		w.onProgress(percent)
	}

	return len(p), nil
}

// retryLogger writes the messages of the HTTP client to the logger.
type retryLogger struct {
	logger log.Logger
}

func (l *retryLogger) with(keysAndValues []interface{}) log.Logger {
	fields := log.Fields{}

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}

		fields[key] = fmt.Sprint(keysAndValues[i+1])
	}

	return l.logger.WithFields(fields)
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn().Log(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug().Log(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug().Log(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn().Log(msg)
}
