// Package install acquires ffmpeg: it downloads the archive for the
// platform, extracts it with the tools of the operating system, and
// installs the binary below the data directory.
package install

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/subplayer/mediacore/ffmpeg/parse"
	"github.com/subplayer/mediacore/log"

	"github.com/Masterminds/semver/v3"
)

type Config struct {
	// DataDir is the directory ffmpeg is installed to.
	DataDir string

	// GOOS selects the platform. Defaults to runtime.GOOS.
	GOOS string

	// Platform replaces the entry of the download table.
	Platform *Platform

	// RateLimit limits the download bandwidth in kbit/s. 0 for no limit.
	RateLimit int

	// Timeout for the whole download. Defaults to 30 minutes.
	Timeout time.Duration

	// ConnectTimeout for establishing the connection. Defaults to 30 seconds.
	ConnectTimeout time.Duration

	// Retries for failed connections. Defaults to 3, negative for none.
	Retries int

	// MaxRedirects is the number of redirects that will be followed.
	// Defaults to 5.
	MaxRedirects int

	Logger log.Logger
}

// Manager manages the installation of ffmpeg.
type Manager struct {
	dataDir        string
	goos           string
	platform       Platform
	platformErr    error
	rateLimit      int
	timeout        time.Duration
	connectTimeout time.Duration
	retries        int
	maxRedirects   int

	// downloadLock serializes downloads, they share the
	// temporary directories below the install directory.
	downloadLock sync.Mutex

	logger log.Logger
}

func New(config Config) *Manager {
	m := &Manager{
		dataDir:        config.DataDir,
		goos:           config.GOOS,
		rateLimit:      config.RateLimit,
		timeout:        config.Timeout,
		connectTimeout: config.ConnectTimeout,
		retries:        config.Retries,
		maxRedirects:   config.MaxRedirects,
		logger:         config.Logger,
	}

	if len(m.goos) == 0 {
		m.goos = runtime.GOOS
	}

	if config.Platform != nil {
		m.platform = *config.Platform
	} else {
		m.platform, m.platformErr = PlatformFor(m.goos)
	}

	if m.timeout <= 0 {
		m.timeout = 30 * time.Minute
	}

	if m.connectTimeout <= 0 {
		m.connectTimeout = 30 * time.Second
	}

	if m.retries == 0 {
		m.retries = 3
	} else if m.retries < 0 {
		m.retries = 0
	}

	if m.maxRedirects <= 0 {
		m.maxRedirects = 5
	}

	if m.logger == nil {
		m.logger = log.New("")
	}

	return m
}

// Path returns the path of the installed binary.
func (m *Manager) Path() string {
	return ResolveInstallPath(m.dataDir, m.goos)
}

// Platform returns the download for the platform of the manager.
func (m *Manager) Platform() (Platform, error) {
	return m.platform, m.platformErr
}

// Exists returns whether an executable file is installed.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.Path())
	if err != nil {
		return false
	}

	if !info.Mode().IsRegular() {
		return false
	}

	if m.goos == "windows" {
		return true
	}

	return info.Mode().Perm()&0111 != 0
}

// Version returns the version of the installed binary as reported by
// `ffmpeg -version`. False is returned if the binary can't be run or its
// output can't be parsed.
func (m *Manager) Version(ctx context.Context) (string, bool) {
	stdout := bytes.Buffer{}

	cmd := exec.CommandContext(ctx, m.Path(), "-version")
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		m.logger.WithError(err).Debug().Log("Querying version failed")
		return "", false
	}

	_, version, ok := parse.Version(stdout.String())
	if !ok {
		return "", false
	}

	return version, true
}

// CheckVersion checks the version of the installed binary against the
// semver constraint, e.g. ">= 4.0". Builds without a release number,
// e.g. from git, are accepted.
func (m *Manager) CheckVersion(ctx context.Context, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return &Error{Kind: KindVersion, Op: "check version", Err: fmt.Errorf("invalid constraint %q: %w", constraint, err)}
	}

	version, ok := m.Version(ctx)
	if !ok {
		return &Error{Kind: KindInstall, Op: "check version", Err: fmt.Errorf("%s: can't query version", m.Path())}
	}

	release, ok := parse.VersionNumber(version)
	if !ok {
		m.logger.WithField("version", version).Warn().Log("Unknown version format, skipping version check")
		return nil
	}

	v, err := semver.NewVersion(release)
	if err != nil {
		return &Error{Kind: KindVersion, Op: "check version", Err: err}
	}

	if !c.Check(v) {
		return &Error{Kind: KindVersion, Op: "check version", Err: fmt.Errorf("%s doesn't satisfy %s: %w", release, constraint, ErrVersion)}
	}

	return nil
}

// Download downloads, extracts and installs ffmpeg. An existing
// installation is replaced. onProgress is called with the download
// progress in percent if the size of the archive is known and may be nil.
// Concurrent calls are run one after the other.
func (m *Manager) Download(ctx context.Context, onProgress func(percent float64)) error {
	if m.platformErr != nil {
		return &Error{Kind: KindInstall, Op: "download", Err: m.platformErr}
	}

	m.downloadLock.Lock()
	defer m.downloadLock.Unlock()

	logger := m.logger.WithField("url", m.platform.URL)

	dir := filepath.Dir(m.Path())
	downloadDir := filepath.Join(dir, ".download")
	extractDir := filepath.Join(dir, ".extract")

	// Leftovers of an aborted attempt
	for _, d := range []string{downloadDir, extractDir} {
		if err := os.RemoveAll(d); err != nil {
			return &Error{Kind: KindInstall, Op: "download", Err: err}
		}
	}

	defer func() {
		os.RemoveAll(downloadDir)
		os.RemoveAll(extractDir)
	}()

	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return &Error{Kind: KindInstall, Op: "download", Err: err}
	}

	archive := filepath.Join(downloadDir, "ffmpeg."+m.platform.Archive)

	logger.Info().Log("Downloading")

	if err := m.download(ctx, archive, onProgress); err != nil {
		logger.WithError(err).Warn().Log("Downloading failed")
		return err
	}

	logger.Info().Log("Extracting")

	if err := m.extract(ctx, archive, extractDir); err != nil {
		logger.WithError(err).Warn().Log("Extracting failed")
		return err
	}

	source, err := m.find(extractDir)
	if err != nil {
		return err
	}

	if err := installFile(source, m.Path()); err != nil {
		return &Error{Kind: KindInstall, Op: "install", Err: err}
	}

	logger.WithField("path", m.Path()).Info().Log("Installed")

	return nil
}
