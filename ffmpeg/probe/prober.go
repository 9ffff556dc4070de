// Package probe recovers the codecs, the duration and the bitrate of a media
// file from the diagnostic output of `ffmpeg -i`.
package probe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/subplayer/mediacore/ffmpeg/parse"
	"github.com/subplayer/mediacore/log"
	"github.com/subplayer/mediacore/net/url"
)

type Prober interface {
	// Probe returns the metadata of the file at path. The path can be a
	// local path or a file:// URL.
	Probe(ctx context.Context, path string) (*Result, error)
}

type Config struct {
	// Binary is the path to the ffmpeg binary.
	Binary string

	// Cache is optional.
	Cache  *Cache
	Logger log.Logger
}

type prober struct {
	binary string
	cache  *Cache
	logger log.Logger
}

func New(config Config) Prober {
	p := &prober{
		binary: config.Binary,
		cache:  config.Cache,
		logger: config.Logger,
	}

	if p.logger == nil {
		p.logger = log.New("")
	}

	return p
}

func (p *prober) Probe(ctx context.Context, address string) (*Result, error) {
	path, err := url.ToLocalPath(address)
	if err != nil {
		return nil, &Error{Kind: KindInput, Path: address, Err: err}
	}

	logger := p.logger.WithField("path", path)

	var stat os.FileInfo

	if p.cache != nil {
		if stat, err = os.Stat(path); err == nil {
			if result, ok := p.cache.Get(path, stat); ok {
				logger.Debug().Log("Cache hit")
				return result, nil
			}
		}
	}

	stderr := bytes.Buffer{}

	cmd := exec.CommandContext(ctx, p.binary, "-hide_banner", "-i", path)
	cmd.Stderr = &stderr

	// Without an output file ffmpeg always exits with 1 after printing
	// the input information. Any other exit code is an error.
	exitCode := 0

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logger.WithError(err).Warn().Log("Starting ffmpeg failed")
			return nil, &Error{Kind: KindSpawn, Path: path, Err: err}
		}

		exitCode = exitErr.ExitCode()
	}

	if ctx.Err() != nil {
		return nil, &Error{Kind: KindSpawn, Path: path, Err: ctx.Err()}
	}

	if exitCode != 1 {
		logger.WithField("exit_code", exitCode).Warn().Log("Unexpected exit code")
		return nil, &Error{Kind: KindExit, Path: path, ExitCode: exitCode, Err: ErrUnexpectedExit}
	}

	info := parse.Probe(stderr.String())
	if !info.HasVideo {
		logger.WithField("output", tail(info.Lines, 5)).Warn().Log("No video stream found")
		return nil, &Error{Kind: KindParse, Path: path, Err: ErrNoVideoStream}
	}

	result := &Result{
		Duration:   info.Duration,
		VideoCodec: info.VideoCodec,
		AudioCodec: info.AudioCodec,
		Resolution: info.Resolution(),
		Bitrate:    info.Bitrate,
		Container:  Container(path),
		Width:      info.Width,
		Height:     info.Height,
		Log:        info.Lines,
	}

	logger.WithFields(log.Fields{
		"video":      result.VideoCodec,
		"audio":      result.AudioCodec,
		"resolution": result.Resolution,
		"duration":   result.Duration,
	}).Debug().Log("Probed")

	if p.cache != nil && stat != nil {
		if err := p.cache.Put(path, stat, result); err != nil {
			logger.WithError(err).Warn().Log("Storing probe result in cache failed")
		}
	}

	return result, nil
}

// Container returns the lower-cased extension of the path without the dot.
func Container(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}

	return lines[len(lines)-n:]
}
