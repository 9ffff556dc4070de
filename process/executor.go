// Package process supervises a single ffmpeg transcode: it starts the
// binary, turns its output into progress snapshots, and cancels it
// cooperatively before it gets killed.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/ffmpeg/parse"
	"github.com/subplayer/mediacore/log"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/time/rate"
)

// Progress is a snapshot of a running transcode.
type Progress = parse.Progress

// State is the state of a transcode session.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

type Config struct {
	// Binary is the path to the ffmpeg binary.
	Binary string

	// OutputDir is the directory for the transcoded files if no output
	// is given to Start. If empty, the directory of the input is used.
	OutputDir string

	// KillTimeout is the time to wait after a cancel before ffmpeg gets
	// killed. Defaults to 5 seconds.
	KillTimeout time.Duration

	// TailSize is the number of characters of the diagnostic output that
	// are kept for the error of a failed transcode. Defaults to 500.
	TailSize int

	Logger log.Logger
}

// Status describes the running transcode.
type Status struct {
	ID         string            `json:"id"`
	PID        int32             `json:"pid"`
	Input      string            `json:"input"`
	Output     string            `json:"output"`
	Strategy   decision.Strategy `json:"strategy"`
	Started    time.Time         `json:"started"`
	Runtime    float64           `json:"runtime"`
	Cancelling bool              `json:"cancelling"`
	Progress   Progress          `json:"progress"`
	Usage      Usage             `json:"usage"`
}

// Stats are the counters of all sessions since the executor has been created.
type Stats struct {
	Started   uint64 `json:"started"`
	Completed uint64 `json:"completed"`
	Cancelled uint64 `json:"cancelled"`
	Failed    uint64 `json:"failed"`
	Last      State  `json:"last"`
}

// Executor runs at most one transcode at a time. It is safe for concurrent use.
type Executor struct {
	binary      string
	outputDir   string
	killTimeout time.Duration
	tailSize    int
	backlog     int
	logger      log.Logger

	session *session
	lock    sync.Mutex

	started   atomic.Uint64
	completed atomic.Uint64
	cancelled atomic.Uint64
	failed    atomic.Uint64
	last      atomic.Value
}

type session struct {
	id       string
	input    string
	output   string
	strategy decision.Strategy
	started  time.Time

	// cmd and pid are guarded by the lock of the executor.
	cmd *exec.Cmd
	pid int32

	cancelRequested atomic.Bool

	killTimer     *time.Timer
	stopped       bool
	killTimerLock sync.Mutex

	// streamErr is the first error reading the output of ffmpeg.
	streamErr     error
	streamErrLock sync.Mutex

	parser  *parse.Parser
	tail    *tail
	logger  log.Logger
	cleanup sync.Once
	done    chan struct{}
}

func New(config Config) *Executor {
	e := &Executor{
		binary:      config.Binary,
		outputDir:   config.OutputDir,
		killTimeout: config.KillTimeout,
		tailSize:    config.TailSize,
		backlog:     64,
		logger:      config.Logger,
	}

	if e.killTimeout <= 0 {
		e.killTimeout = 5 * time.Second
	}

	if e.tailSize <= 0 {
		e.tailSize = 500
	}

	if e.logger == nil {
		e.logger = log.New("")
	}

	e.last.Store(StateIdle)

	return e
}

// Args returns the ffmpeg arguments for transcoding input to output with
// the given options. Without options the streams are copied.
func Args(input, output string, options decision.Options) []string {
	args := []string{"-y", "-hide_banner", "-i", input}

	if o := options.Args(); len(o) != 0 {
		args = append(args, o...)
	} else {
		args = append(args, "-c", "copy")
	}

	return append(args, "-progress", "pipe:1", output)
}

// Start transcodes input to output according to the decision and blocks
// until ffmpeg exits. If output is empty, a path is derived from the
// input, see OutputPath. onProgress is called in order for every progress
// snapshot and may be nil.
//
// The path of the output is returned together with nil if the transcode
// completed, ErrCancelled if it has been cancelled, or an *ExitError if it
// failed. If a transcode is already running, ErrBusy is returned. Cancelling
// ctx cancels the transcode.
func (e *Executor) Start(ctx context.Context, input, output string, d decision.Decision, onProgress func(Progress)) (string, error) {
	if len(output) == 0 {
		output = OutputPath(e.outputDir, input, d.Strategy, time.Now())
	}

	s := &session{
		id:       shortuuid.New(),
		input:    input,
		output:   output,
		strategy: d.Strategy,
		started:  time.Now(),
		tail:     newTail(e.tailSize),
		done:     make(chan struct{}),
	}

	s.logger = e.logger.WithFields(log.Fields{
		"session": s.id,
		"input":   input,
		"output":  output,
	})

	e.lock.Lock()
	if e.session != nil {
		e.lock.Unlock()
		return "", ErrBusy
	}
	e.session = s
	e.lock.Unlock()

	defer e.release(s)

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		err = &ExitError{Kind: KindSpawn, ExitCode: -1, Err: fmt.Errorf("creating output directory: %w", err)}
		e.finish(s, StateFailed, err)
		return output, err
	}

	events := make(chan Progress, e.backlog)

	cmd := exec.Command(e.binary, Args(input, output, d.Options)...)
	setSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		err = &ExitError{Kind: KindStream, ExitCode: -1, Err: err}
		e.finish(s, StateFailed, err)
		return output, err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		err = &ExitError{Kind: KindStream, ExitCode: -1, Err: err}
		e.finish(s, StateFailed, err)
		return output, err
	}

	if err := cmd.Start(); err != nil {
		err = &ExitError{Kind: KindSpawn, ExitCode: -1, Err: err}
		e.finish(s, StateFailed, err)
		return output, err
	}

	e.started.Add(1)
	e.last.Store(StateRunning)

	s.parser = parse.New(parse.Config{
		Duration: d.Duration,
		OnProgress: func(p Progress) {
			select {
			case events <- p:
			default:
				// The receiver is behind, the next snapshot will catch up.
			}
		},
	})

	e.lock.Lock()
	s.cmd = cmd
	s.pid = int32(cmd.Process.Pid)
	e.lock.Unlock()

	s.logger.WithFields(log.Fields{
		"pid":      cmd.Process.Pid,
		"strategy": d.Strategy.String(),
		"args":     cmd.Args[1:],
	}).Info().Log("Started")

	// A cancel may have arrived before the process existed.
	if s.cancelRequested.Load() {
		e.terminate(s, cmd)
	}

	go func() {
		select {
		case <-ctx.Done():
			if e.cancel(s) {
				s.logger.Info().Log("Context done, cancelling")
			}
		case <-s.done:
		}
	}()

	dispatched := make(chan struct{})
	delivered := Progress{}

	go func() {
		defer close(dispatched)

		sometimes := rate.Sometimes{Interval: 5 * time.Second}

		for p := range events {
			sometimes.Do(func() {
				s.logger.WithFields(log.Fields{
					"progress": p.Percent,
					"time":     p.Time,
					"speed":    p.Speed,
				}).Debug().Log("Progress")
			})

			if onProgress != nil {
				onProgress(p)
			}

			delivered = p
		}
	}()

	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.read(stdout, false)
	}()

	go func() {
		defer wg.Done()
		s.read(stderr, true)
	}()

	// All output must be read before waiting for the process.
	wg.Wait()

	waitErr := cmd.Wait()

	s.parser.Stop()
	close(events)
	<-dispatched

	// The final snapshot may have been dropped on a full channel.
	if final := s.parser.Progress(); onProgress != nil && final != (Progress{}) && final != delivered {
		onProgress(final)
	}

	state, err := e.classify(s, waitErr)
	e.finish(s, state, err)

	return output, err
}

// read feeds the lines of r into the parser. The lines of stderr are kept
// in the tail.
func (s *session) read(r io.Reader, diagnostic bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLines)

	for scanner.Scan() {
		line := scanner.Text()

		if diagnostic {
			s.tail.WriteLine(line)
		}

		s.parser.Parse(line)
	}

	if err := scanner.Err(); err != nil {
		s.logger.WithError(err).Warn().Log("Reading output failed")

		s.streamErrLock.Lock()
		if s.streamErr == nil {
			s.streamErr = err
		}
		s.streamErrLock.Unlock()

		if diagnostic {
			s.tail.WriteLine(err.Error())
		}

		// Keep draining, otherwise ffmpeg blocks on a full pipe.
		io.Copy(io.Discard, r)
	}
}

// classify returns the final state of the session from the error of
// cmd.Wait. A cancelled transcode takes precedence over a stream error,
// a stream error over the exit code.
func (e *Executor) classify(s *session, err error) (State, error) {
	exitCode := 0

	if err != nil {
		exitCode = -1

		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()

			if s.cancelRequested.Load() && interrupted(exitErr.ProcessState) {
				return StateCancelled, ErrCancelled
			}
		}
	}

	s.streamErrLock.Lock()
	streamErr := s.streamErr
	s.streamErrLock.Unlock()

	if streamErr != nil {
		return StateFailed, &ExitError{
			Kind:     KindStream,
			ExitCode: exitCode,
			Tail:     s.tail.String(),
			Err:      streamErr,
		}
	}

	if err == nil {
		return StateCompleted, nil
	}

	return StateFailed, &ExitError{
		Kind:     KindExit,
		ExitCode: exitCode,
		Tail:     s.tail.String(),
		Err:      err,
	}
}

func (e *Executor) finish(s *session, state State, err error) {
	switch state {
	case StateCompleted:
		e.completed.Add(1)
		s.logger.WithField("runtime", time.Since(s.started).Seconds()).Info().Log("Completed")
	case StateCancelled:
		e.cancelled.Add(1)
		s.logger.Info().Log("Cancelled")
	default:
		e.failed.Add(1)
		s.logger.WithError(err).Warn().Log("Failed")
	}

	e.last.Store(state)
}

// release clears the session exactly once.
func (e *Executor) release(s *session) {
	s.cleanup.Do(func() {
		s.killTimerLock.Lock()
		s.stopped = true
		if s.killTimer != nil {
			s.killTimer.Stop()
			s.killTimer = nil
		}
		s.killTimerLock.Unlock()

		e.lock.Lock()
		if e.session == s {
			e.session = nil
		}
		s.cmd = nil
		s.pid = 0
		e.lock.Unlock()

		close(s.done)
	})
}

// Cancel requests the running transcode to stop. It returns immediately
// and reports whether a transcode has been running. ffmpeg is asked to
// terminate and gets killed if it is still running after the kill timeout.
func (e *Executor) Cancel() bool {
	e.lock.Lock()
	s := e.session
	e.lock.Unlock()

	if s == nil {
		return false
	}

	if !e.cancel(s) {
		s.logger.Debug().Log("Cancel already requested")
	}

	return true
}

// cancel sets the cancel flag of the session and terminates ffmpeg if it
// is already running. It returns false if a cancel had been requested before.
func (e *Executor) cancel(s *session) bool {
	if !s.cancelRequested.CompareAndSwap(false, true) {
		return false
	}

	e.lock.Lock()
	cmd := s.cmd
	e.lock.Unlock()

	if cmd != nil {
		e.terminate(s, cmd)
	}

	return true
}

func (e *Executor) terminate(s *session, cmd *exec.Cmd) {
	s.logger.Info().Log("Cancelling")

	if err := terminate(cmd.Process); err != nil {
		s.logger.WithError(err).Debug().Log("Sending signal failed")
	}

	s.killTimerLock.Lock()
	defer s.killTimerLock.Unlock()

	if s.stopped || s.killTimer != nil {
		return
	}

	s.killTimer = time.AfterFunc(e.killTimeout, func() {
		s.logger.WithField("timeout", e.killTimeout.String()).Warn().Log("Killing, ffmpeg didn't stop in time")

		if err := kill(cmd.Process); err != nil {
			s.logger.WithError(err).Debug().Log("Killing failed")
		}
	})
}

// Current returns the status of the running transcode. If no transcode is
// running, false is returned.
func (e *Executor) Current() (Status, bool) {
	e.lock.Lock()
	s := e.session
	pid := int32(0)
	if s != nil {
		pid = s.pid
	}
	e.lock.Unlock()

	if s == nil {
		return Status{}, false
	}

	status := Status{
		ID:         s.id,
		PID:        pid,
		Input:      s.input,
		Output:     s.output,
		Strategy:   s.strategy,
		Started:    s.started,
		Runtime:    time.Since(s.started).Seconds(),
		Cancelling: s.cancelRequested.Load(),
	}

	if pid > 0 {
		status.Progress = s.parser.Progress()

		if u, err := usage(pid); err == nil {
			status.Usage = u
		}
	}

	return status, true
}

// Stats returns the session counters.
func (e *Executor) Stats() Stats {
	return Stats{
		Started:   e.started.Load(),
		Completed: e.completed.Load(),
		Cancelled: e.cancelled.Load(),
		Failed:    e.failed.Load(),
		Last:      e.last.Load().(State),
	}
}
