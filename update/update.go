// Package update checks whether the installed ffmpeg is older than the
// release that would be downloaded.
package update

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/subplayer/mediacore/ffmpeg/parse"
	"github.com/subplayer/mediacore/log"

	"golang.org/x/mod/semver"
)

// Config is the configuration for the update check
type Config struct {
	// Installed returns the version of the installed ffmpeg.
	Installed func(ctx context.Context) (string, bool)

	// Latest is the release of the download table.
	Latest string

	// Interval between two checks. Defaults to 24 hours.
	Interval time.Duration

	Logger log.Logger
}

// Result is the outcome of a check.
type Result struct {
	Installed       string `json:"installed"`
	Latest          string `json:"latest"`
	UpdateAvailable bool   `json:"update_available"`
}

// Checker checks periodically for updates.
type Checker interface {
	Start()
	Stop()

	// Check compares the installed version with the latest release.
	Check(ctx context.Context) (Result, error)

	// Last returns the result of the last periodic check.
	Last() (Result, bool)
}

type checker struct {
	installed func(ctx context.Context) (string, bool)
	latest    string
	interval  time.Duration

	startOnce sync.Once
	stopOnce  sync.Once

	stopTicker context.CancelFunc

	last     Result
	hasLast  bool
	lastLock sync.RWMutex

	logger log.Logger
}

// New creates a new update checker
func New(config Config) (Checker, error) {
	s := &checker{
		installed: config.Installed,
		latest:    config.Latest,
		interval:  config.Interval,
		logger:    config.Logger,
	}

	if s.logger == nil {
		s.logger = log.New("")
	}

	if s.installed == nil {
		return nil, fmt.Errorf("no version source provided")
	}

	if !semver.IsValid(canonical(s.latest)) {
		return nil, fmt.Errorf("invalid latest version: %q", s.latest)
	}

	if s.interval <= 0 {
		s.interval = 24 * time.Hour
	}

	// drain stop once, so it can't be called before startOnce has been called
	s.stopOnce.Do(func() {})

	return s, nil
}

func (s *checker) tick(ctx context.Context, interval, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	s.checkAndStore(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndStore(ctx)
		}
	}
}

func (s *checker) checkAndStore(ctx context.Context) {
	result, err := s.Check(ctx)
	if err != nil {
		s.logger.WithError(err).Warn().Log("Failed to check for updates")
		return
	}

	s.lastLock.Lock()
	s.last = result
	s.hasLast = true
	s.lastLock.Unlock()
}

func (s *checker) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopTicker = cancel
		go s.tick(ctx, s.interval, 10*time.Second)

		s.stopOnce = sync.Once{}
	})
}

func (s *checker) Stop() {
	s.stopOnce.Do(func() {
		s.stopTicker()
		s.startOnce = sync.Once{}
	})
}

func (s *checker) Last() (Result, bool) {
	s.lastLock.RLock()
	defer s.lastLock.RUnlock()

	return s.last, s.hasLast
}

func (s *checker) Check(ctx context.Context) (Result, error) {
	version, ok := s.installed(ctx)
	if !ok {
		return Result{}, fmt.Errorf("ffmpeg is not installed")
	}

	result := Result{
		Installed: version,
		Latest:    s.latest,
	}

	release, ok := parse.VersionNumber(version)
	if !ok {
		s.logger.Debug().WithField("version", version).Log("Snapshot build, not comparing")
		return result, nil
	}

	cmp := semver.Compare(canonical(s.latest), canonical(release))

	s.logger.Debug().WithFields(log.Fields{
		"comparison": cmp,
		"current":    release,
		"available":  s.latest,
	}).Log("")

	if cmp == 1 {
		result.UpdateAvailable = true

		s.logger.Info().WithFields(log.Fields{
			"current":   release,
			"available": s.latest,
		}).Log("New ffmpeg version available")
	}

	return result, nil
}

func canonical(version string) string {
	return "v" + version
}
