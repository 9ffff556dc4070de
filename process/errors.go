package process

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by Start if a transcode is already running.
	ErrBusy = errors.New("a transcode is already running")

	// ErrCancelled is returned by Start if the transcode has been cancelled.
	ErrCancelled = errors.New("transcode cancelled")
)

type ErrorKind string

const (
	// KindSpawn means the binary couldn't be started.
	KindSpawn ErrorKind = "spawn"

	// KindExit means the binary exited with a failure.
	KindExit ErrorKind = "exit"

	// KindStream means the output of the binary couldn't be read.
	KindStream ErrorKind = "stream"
)

// ExitError describes a failed transcode. Tail holds the last characters
// of the diagnostic output.
type ExitError struct {
	Kind     ErrorKind
	ExitCode int
	Tail     string
	Err      error
}

func (e *ExitError) Error() string {
	switch e.Kind {
	case KindSpawn:
		return fmt.Sprintf("starting ffmpeg failed: %s", e.Err)
	case KindStream:
		return fmt.Sprintf("reading ffmpeg output failed: %s", e.Err)
	}

	if len(e.Tail) == 0 {
		return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
	}

	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, e.Tail)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
