package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	golog "log"
	gohttp "net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/subplayer/mediacore/app"
	"github.com/subplayer/mediacore/config"
	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/ffmpeg/install"
	"github.com/subplayer/mediacore/ffmpeg/probe"
	"github.com/subplayer/mediacore/ffmpeg/skills"
	"github.com/subplayer/mediacore/http"
	"github.com/subplayer/mediacore/log"
	"github.com/subplayer/mediacore/process"
	"github.com/subplayer/mediacore/prometheus"
	"github.com/subplayer/mediacore/update"

	"github.com/google/gops/agent"
	"go.uber.org/automaxprocs/maxprocs"
)

// The API interface is the implementation for the transcode API.
type API interface {
	// Start starts the API. This is blocking until the app has
	// been ended with Stop() or Destroy(). In this case a nil error
	// is returned. An ErrConfigReload error is returned if the
	// configuration file has been changed.
	Start(ctx context.Context) error

	// Stop stops the API.
	Stop()

	// Destroy is the same as Stop() and also drops the buffered log.
	Destroy()

	// Reload the configuration for the API. If there's an error the
	// previously loaded configuration is not altered.
	Reload() error
}

type api struct {
	engine     *engine.Engine
	cache      *probe.Cache
	prom       prometheus.Metrics
	update     update.Checker
	mainserver *gohttp.Server

	errorChan chan error
	errorLock sync.Mutex

	log struct {
		writer io.Writer
		buffer log.BufferWriter
		logger struct {
			core log.Logger
			main log.Logger
		}
	}

	config struct {
		path     string
		config   *config.Data
		watching bool
	}

	lock   sync.Mutex
	wgStop sync.WaitGroup
	state  string

	undoMaxprocs func()
}

// ErrConfigReload is an error returned to indicate that a reload of
// the configuration has been requested.
var ErrConfigReload = errors.New("configuration reload")

// New returns a new instance of the API interface. configpath may be empty,
// then only the defaults and the environment are used.
func New(configpath string, logwriter io.Writer) (API, error) {
	a := &api{
		state: "idle",
	}

	a.config.path = configpath
	a.log.writer = logwriter

	if a.log.writer == nil {
		a.log.writer = io.Discard
	}

	a.errorChan = make(chan error, 1)

	if err := a.Reload(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *api) Reload() error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == "running" {
		return fmt.Errorf("can't reload config while running")
	}

	a.errorLock.Lock()
	if a.errorChan == nil {
		a.errorChan = make(chan error, 1)
	}
	a.errorLock.Unlock()

	cfg, err := config.Load(a.config.path)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	loglevel, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var writer log.Writer

	if cfg.Log.JSON {
		writer = log.NewJSONWriter(a.log.writer, loglevel)
	} else {
		writer = log.NewConsoleWriter(a.log.writer, loglevel, true)
	}

	buffer := log.NewBufferWriter(loglevel, cfg.Log.MaxLines)

	logger := log.New("Core").WithOutput(log.NewSyncWriter(
		log.NewMultiWriter(
			log.NewTopicWriter(writer, cfg.Log.Topics),
			buffer,
		),
	))

	logfields := log.Fields{
		"application": app.Name,
		"version":     app.Version.String(),
		"arch":        app.Arch,
		"compiler":    app.Compiler,
	}

	if len(app.Commit) != 0 {
		logfields["commit"] = app.Commit
	}

	if len(app.Build) != 0 {
		logfields["build"] = app.Build
	}

	logger.Info().WithFields(logfields).Log("")

	if len(a.config.path) != 0 {
		logger.Info().WithField("path", a.config.path).Log("Read config file")

		if !a.config.watching {
			config.Watch(a.config.path, func() {
				a.sendError(ErrConfigReload)
			})

			a.config.watching = true
		}
	}

	a.config.config = cfg
	a.log.logger.core = logger
	a.log.buffer = buffer

	return nil
}

// sendError forwards the error to Start, if there's no pending error.
func (a *api) sendError(err error) {
	a.errorLock.Lock()
	defer a.errorLock.Unlock()

	if a.errorChan == nil {
		return
	}

	select {
	case a.errorChan <- err:
	default:
	}
}

func (a *api) start(ctx context.Context) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == "running" {
		return fmt.Errorf("already running")
	}

	a.errorLock.Lock()
	if a.errorChan == nil {
		a.errorChan = make(chan error, 1)
	}
	a.errorLock.Unlock()

	a.state = "starting"

	cfg := a.config.config

	if cfg.Debug.AutoMaxProcs {
		undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			format = strings.TrimPrefix(format, "maxprocs: ")
			a.log.logger.core.Debug().Log(format, args...)
		}))
		if err != nil {
			a.log.logger.core.Warn().Log("%s", err.Error())
		}

		a.undoMaxprocs = undoMaxprocs
	}

	if len(cfg.Debug.AgentAddress) != 0 {
		if err := agent.Listen(agent.Options{
			Addr:                   cfg.Debug.AgentAddress,
			ReuseSocketAddrAndPort: true,
		}); err != nil {
			a.log.logger.core.Error().WithError(err).Log("")
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if cfg.Probe.Cache.Enable {
		cache, err := probe.OpenCache(cfg.ProbeCacheFile())
		if err != nil {
			return fmt.Errorf("failed to open probe cache: %w", err)
		}

		a.cache = cache
	}

	installConfig := install.Config{
		DataDir:        cfg.DataDir,
		RateLimit:      int(cfg.FFmpeg.Download.RateLimit),
		Timeout:        cfg.DownloadTimeout(),
		ConnectTimeout: cfg.ConnectTimeout(),
		Retries:        cfg.FFmpeg.Download.Retries,
		Logger:         a.log.logger.core.WithComponent("Install"),
	}

	if cfg.FFmpeg.Download.Retries == 0 {
		installConfig.Retries = -1
	}

	platform, platformErr := install.PlatformFor(runtime.GOOS)

	if len(cfg.FFmpeg.Download.URL) != 0 {
		override := platform
		override.URL = cfg.FFmpeg.Download.URL

		if strings.HasSuffix(override.URL, ".zip") {
			override.Archive = install.ArchiveZip
		} else if strings.HasSuffix(override.URL, ".tar.xz") {
			override.Archive = install.ArchiveTarXZ
		}

		if len(override.Executable) == 0 {
			override.Executable = "ffmpeg"
			if runtime.GOOS == "windows" {
				override.Executable = "ffmpeg.exe"
			}
		}

		installConfig.Platform = &override
	}

	installer := install.New(installConfig)

	binary := cfg.FFmpeg.Binary
	if len(binary) == 0 {
		binary = installer.Path()
	}

	prober := probe.New(probe.Config{
		Binary: binary,
		Cache:  a.cache,
		Logger: a.log.logger.core.WithComponent("Probe"),
	})

	matrix, err := skills.NewMatrix(cfg.Playback.Profile, skills.Overrides{
		Video:      cfg.Playback.Video,
		Audio:      cfg.Playback.Audio,
		Containers: cfg.Playback.Containers,
	})
	if err != nil {
		return fmt.Errorf("invalid playback profile: %w", err)
	}

	decider := decision.New(decision.Config{
		Matrix:      matrix,
		Prober:      prober,
		Concurrency: cfg.Transcode.Concurrency,
		Logger:      a.log.logger.core.WithComponent("Decision"),
	})

	executor := process.New(process.Config{
		Binary:    binary,
		OutputDir: cfg.Transcode.OutputDir,
		Logger:    a.log.logger.core.WithComponent("Process"),
	})

	e, err := engine.New(engine.Config{
		DataDir:    cfg.DataDir,
		Installer:  installer,
		Prober:     prober,
		Decider:    decider,
		Executor:   executor,
		Binary:     cfg.FFmpeg.Binary,
		MinVersion: cfg.FFmpeg.MinVersion,
		Logger:     a.log.logger.core.WithComponent("Engine"),
	})
	if err != nil {
		return fmt.Errorf("unable to create engine: %w", err)
	}

	if len(cfg.FFmpeg.Binary) != 0 || installer.Exists() {
		if err := e.LoadSkills(ctx); err != nil {
			a.log.logger.core.Warn().WithError(err).Log("Loading the skills of ffmpeg failed")
		}
	} else {
		a.log.logger.core.Info().WithField("path", installer.Path()).Log("ffmpeg is not installed yet")
	}

	a.engine = e

	if cfg.CheckForUpdates {
		if platformErr != nil {
			a.log.logger.core.Warn().WithError(platformErr).Log("Update check is not available")
		} else {
			checker, err := update.New(update.Config{
				Installed: installer.Version,
				Latest:    platform.Version,
				Logger:    a.log.logger.core.WithComponent("Update"),
			})
			if err != nil {
				return fmt.Errorf("unable to create update checker: %w", err)
			}

			a.update = checker
		}
	}

	var metrics gohttp.Handler

	if cfg.Metrics.Enable {
		prom, err := prometheus.New(prometheus.Config{
			Runtime: true,
		})
		if err != nil {
			return fmt.Errorf("unable to create metrics: %w", err)
		}

		if err := prom.Register(prometheus.NewEngineCollector(cfg.Name, e)); err != nil {
			return fmt.Errorf("unable to register engine metrics: %w", err)
		}

		a.prom = prom
		metrics = prom.HTTPHandler()
	}

	a.log.logger.main = a.log.logger.core.WithComponent("HTTP").WithField("address", cfg.Address)

	server, err := http.NewServer(http.Config{
		Logger:      a.log.logger.main,
		LogBuffer:   a.log.buffer,
		Engine:      e,
		Updates:     a.update,
		Metrics:     metrics,
		ID:          cfg.ID,
		Name:        cfg.Name,
		CreatedAt:   cfg.LoadedAt,
		Profile:     cfg.Playback.Profile,
		CorsOrigins: cfg.API.CorsOrigins,
		Compress:    cfg.API.Compress,
		Profiling:   cfg.Debug.Profiling,
	})
	if err != nil {
		return fmt.Errorf("unable to create server: %w", err)
	}

	a.mainserver = &gohttp.Server{
		Addr:              cfg.Address,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          golog.New(a.log.logger.main.Debug(), "", 0),
	}

	wgStart := sync.WaitGroup{}
	wgStart.Add(1)
	a.wgStop.Add(1)

	go func() {
		logger := a.log.logger.main

		defer func() {
			logger.Info().Log("Server exited")
			a.wgStop.Done()
		}()

		wgStart.Done()

		logger.Info().Log("Server started")

		err := a.mainserver.ListenAndServe()
		if err != nil && !errors.Is(err, gohttp.ErrServerClosed) {
			err = fmt.Errorf("HTTP server: %w", err)
		} else {
			err = nil
		}

		a.sendError(err)
	}()

	// Wait for the server to be started
	wgStart.Wait()

	if a.update != nil {
		a.update.Start()
	}

	a.state = "running"

	return nil
}

func (a *api) Start(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		a.stop()
		return err
	}

	a.errorLock.Lock()
	errorChan := a.errorChan
	a.errorLock.Unlock()

	// Block until there's an error from the server or the config changed
	select {
	case err := <-errorChan:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (a *api) stop() {
	a.lock.Lock()
	defer a.lock.Unlock()

	logger := a.log.logger.core.WithField("action", "shutdown")

	if a.state == "idle" {
		logger.Info().Log("Complete")
		return
	}

	if a.update != nil {
		a.update.Stop()
		a.update = nil
	}

	// Cancel a running transcode, ffmpeg would otherwise outlive the app
	if a.engine != nil {
		if _, running := a.engine.Status(); running {
			logger.Info().Log("Cancelling the running transcode ...")
			a.engine.CancelTranscode()
		}
	}

	// Shutdown the HTTP mainserver
	if a.mainserver != nil {
		logger := a.log.logger.main
		logger.Info().Log("Stopping ...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.mainserver.Shutdown(ctx); err != nil {
			logger.Error().WithError(err).Log("")
		}

		a.mainserver = nil
	}

	if a.prom != nil {
		a.prom.UnregisterAll()
		a.prom = nil
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error().WithError(err).Log("Closing the probe cache failed")
		}
		a.cache = nil
	}

	a.engine = nil

	// Stop gops agent
	agent.Close()

	// Wait for all server goroutines to exit
	logger.Info().Log("Waiting for all servers to stop ...")
	a.wgStop.Wait()

	// Drain error channel
	a.errorLock.Lock()
	if a.errorChan != nil {
		close(a.errorChan)
		a.errorChan = nil
	}
	a.errorLock.Unlock()

	a.state = "idle"

	if a.undoMaxprocs != nil {
		a.undoMaxprocs()
		a.undoMaxprocs = nil
	}

	logger.Info().Log("Complete")
}

func (a *api) Stop() {
	a.log.logger.core.Info().Log("Shutdown requested ...")
	a.stop()
}

func (a *api) Destroy() {
	a.Stop()

	a.log.buffer.Close()
}
