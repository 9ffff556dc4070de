// Package skills finds out what the installed ffmpeg is able to do and what
// the playback environment is able to play.
package skills

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"

	"github.com/subplayer/mediacore/ffmpeg/parse"
)

// FFmpeg holds the version information of the binary.
type FFmpeg struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Release string `json:"release"`
}

// Skills are the capabilities of the installed ffmpeg.
type Skills struct {
	FFmpeg   FFmpeg          `json:"ffmpeg"`
	Encoders []parse.Encoder `json:"encoders"`
}

// HasEncoder returns whether the binary has the encoder with the given id.
func (s Skills) HasEncoder(id string) bool {
	return slices.ContainsFunc(s.Encoders, func(e parse.Encoder) bool {
		return e.ID == id
	})
}

// New queries the binary for its version and its encoders.
func New(ctx context.Context, binary string) (Skills, error) {
	s := Skills{}

	out, err := run(ctx, binary, "-version")
	if err != nil {
		return Skills{}, fmt.Errorf("can't query ffmpeg version: %w", err)
	}

	name, version, ok := parse.Version(string(out))
	if !ok {
		return Skills{}, fmt.Errorf("can't parse ffmpeg version info")
	}

	s.FFmpeg.Name = name
	s.FFmpeg.Version = version
	s.FFmpeg.Release, _ = parse.VersionNumber(version)

	out, err = run(ctx, binary, "-hide_banner", "-encoders")
	if err != nil {
		return Skills{}, fmt.Errorf("can't query ffmpeg encoders: %w", err)
	}

	s.Encoders = parse.Encoders(string(out))

	return s, nil
}

func run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	stdout := bytes.Buffer{}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = []string{}
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return stdout.Bytes(), nil
}
