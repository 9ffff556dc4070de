package install

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrTooManyRedirects    = errors.New("too many redirects")
	ErrDownloadTimeout     = errors.New("download timed out")
	ErrConnectTimeout      = errors.New("connecting timed out")
	ErrExtract             = errors.New("extracting the archive failed")
	ErrExecutableNotFound  = errors.New("executable not found in archive")
	ErrVersion             = errors.New("unsupported ffmpeg version")
)

// ErrorKind tells the caller how to remedy a failed acquisition.
type ErrorKind string

const (
	KindNetwork  ErrorKind = "network"
	KindRedirect ErrorKind = "redirect"
	KindTimeout  ErrorKind = "timeout"
	KindExtract  ErrorKind = "extract"
	KindInstall  ErrorKind = "install"
	KindVersion  ErrorKind = "version"
)

// Error is the error of all operations of the manager.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
