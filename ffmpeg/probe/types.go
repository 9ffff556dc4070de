package probe

import (
	"errors"
	"fmt"
)

// Result is the metadata of a media file as reported by ffmpeg.
type Result struct {
	// Duration in seconds, 0 if unknown.
	Duration   float64 `json:"duration"`
	VideoCodec string  `json:"videoCodec"`

	// AudioCodec is "none" if the file has no audio stream.
	AudioCodec string `json:"audioCodec"`

	// Resolution as "WxH".
	Resolution string `json:"resolution"`

	// Bitrate in bits per second, "unknown" if not reported.
	Bitrate string `json:"bitrate"`

	// Container is the lower-cased file extension without the dot.
	Container string `json:"container"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	Log []string `json:"-"`
}

// ErrorKind distinguishes the reasons for a failed probe.
type ErrorKind string

const (
	KindInput ErrorKind = "input"
	KindSpawn ErrorKind = "spawn"
	KindExit  ErrorKind = "exit"
	KindParse ErrorKind = "parse"
)

var (
	ErrNoVideoStream  = errors.New("no video stream found")
	ErrUnexpectedExit = errors.New("unexpected exit code")
)

// Error is returned by Probe.
type Error struct {
	Kind     ErrorKind
	Path     string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.Kind == KindExit {
		return fmt.Sprintf("probe %s: %s %d", e.Path, e.Err, e.ExitCode)
	}

	return fmt.Sprintf("probe %s: %s", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
