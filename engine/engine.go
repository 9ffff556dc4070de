// Package engine exposes the transcode engine as a set of commands. Every
// command returns an envelope with a success flag and an error message
// instead of an error value.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/ffmpeg/install"
	"github.com/subplayer/mediacore/ffmpeg/probe"
	"github.com/subplayer/mediacore/ffmpeg/skills"
	"github.com/subplayer/mediacore/log"
	"github.com/subplayer/mediacore/net/url"
	"github.com/subplayer/mediacore/process"

	"github.com/lithammer/shortuuid/v4"
)

var (
	ErrNotNeeded    = errors.New("no transcode needed, the file is playable as it is")
	ErrNotRunning   = errors.New("no transcode is running")
	ErrNotInstalled = errors.New("ffmpeg is not installed")
)

type Config struct {
	// DataDir is the directory of the application data.
	DataDir string

	Installer *install.Manager
	Prober    probe.Prober
	Decider   *decision.Maker
	Executor  *process.Executor

	// Binary is the ffmpeg that is used. Defaults to the installed one.
	Binary string

	// MinVersion is a semver constraint for the version of ffmpeg.
	MinVersion string

	Logger log.Logger
}

// Stats are the counters of the engine.
type Stats struct {
	Downloads     uint64            `json:"downloads"`
	DownloadFails map[string]uint64 `json:"download_fails"`
	Probes        uint64            `json:"probes"`
	ProbeFails    map[string]uint64 `json:"probe_fails"`
	Transcodes    process.Stats     `json:"transcodes"`
	Subscribers   int               `json:"subscribers"`
}

// Engine is safe for concurrent use.
type Engine struct {
	dataDir    string
	installer  *install.Manager
	prober     probe.Prober
	decider    *decision.Maker
	executor   *process.Executor
	binary     string
	minVersion string

	subscribers map[string]chan Event
	subLock     sync.Mutex

	downloads     uint64
	downloadFails map[string]uint64
	probes        uint64
	probeFails    map[string]uint64
	statsLock     sync.Mutex

	logger log.Logger
}

func New(config Config) (*Engine, error) {
	e := &Engine{
		dataDir:       config.DataDir,
		installer:     config.Installer,
		prober:        config.Prober,
		decider:       config.Decider,
		executor:      config.Executor,
		binary:        config.Binary,
		minVersion:    config.MinVersion,
		subscribers:   map[string]chan Event{},
		downloadFails: map[string]uint64{},
		probeFails:    map[string]uint64{},
		logger:        config.Logger,
	}

	if e.installer == nil {
		return nil, fmt.Errorf("no installer provided")
	}

	if e.prober == nil {
		return nil, fmt.Errorf("no prober provided")
	}

	if e.decider == nil {
		return nil, fmt.Errorf("no decision maker provided")
	}

	if e.executor == nil {
		return nil, fmt.Errorf("no executor provided")
	}

	if len(e.binary) == 0 {
		e.binary = e.installer.Path()
	}

	if e.logger == nil {
		e.logger = log.New("")
	}

	return e, nil
}

// Binary returns the path of the ffmpeg binary in use.
func (e *Engine) Binary() string {
	return e.binary
}

// LoadSkills queries the encoders of ffmpeg for the decisions and checks
// the minimum version.
func (e *Engine) LoadSkills(ctx context.Context) error {
	if len(e.minVersion) != 0 && e.binary == e.installer.Path() {
		if err := e.installer.CheckVersion(ctx, e.minVersion); err != nil {
			e.logger.WithError(err).Warn().Log("Installed ffmpeg doesn't meet the version requirement")
		}
	}

	s, err := skills.New(ctx, e.binary)
	if err != nil {
		return err
	}

	e.decider.SetSkills(s)

	e.logger.WithFields(log.Fields{
		"version":  s.FFmpeg.Version,
		"encoders": len(s.Encoders),
	}).Info().Log("Loaded ffmpeg skills")

	return nil
}

// CheckExists reports whether ffmpeg is installed.
func (e *Engine) CheckExists(ctx context.Context) ExistsResult {
	return ExistsResult{
		Result: ok(),
		Exists: e.installer.Exists(),
	}
}

// GetVersion returns the version of the installed ffmpeg.
func (e *Engine) GetVersion(ctx context.Context) VersionResult {
	version, found := e.installer.Version(ctx)
	if !found {
		return VersionResult{Result: fail(ErrNotInstalled)}
	}

	return VersionResult{
		Result:  ok(),
		Version: version,
	}
}

// Download installs ffmpeg. onProgress may be nil.
func (e *Engine) Download(ctx context.Context, onProgress func(percent float64)) Result {
	err := e.installer.Download(ctx, func(percent float64) {
		e.publish(Event{Type: EventDownload, Percent: percent})

		if onProgress != nil {
			onProgress(percent)
		}
	})

	e.statsLock.Lock()
	if err != nil {
		kind := "unknown"

		installErr := &install.Error{}
		if errors.As(err, &installErr) {
			kind = string(installErr.Kind)
		}

		e.downloadFails[kind]++
	} else {
		e.downloads++
	}
	e.statsLock.Unlock()

	if err != nil {
		return fail(err)
	}

	if e.binary == e.installer.Path() {
		if err := e.LoadSkills(ctx); err != nil {
			e.logger.WithError(err).Warn().Log("Loading skills failed")
		}
	}

	return ok()
}

// GetVideoInfo probes the file.
func (e *Engine) GetVideoInfo(ctx context.Context, path string) VideoInfoResult {
	result, err := e.probe(ctx, path)
	if err != nil {
		return VideoInfoResult{Result: fail(err)}
	}

	return VideoInfoResult{
		Result: ok(),
		Info:   result,
	}
}

func (e *Engine) probe(ctx context.Context, path string) (*probe.Result, error) {
	result, err := e.prober.Probe(ctx, path)

	e.statsLock.Lock()
	defer e.statsLock.Unlock()

	if err != nil {
		kind := "unknown"

		probeErr := &probe.Error{}
		if errors.As(err, &probeErr) {
			kind = string(probeErr.Kind)
		}

		e.probeFails[kind]++

		return nil, err
	}

	e.probes++

	return result, nil
}

// Recommend decides about the file. It never fails for a valid path, files
// that can't be probed get a full transcode.
func (e *Engine) Recommend(ctx context.Context, path string) RecommendResult {
	local, err := url.ToLocalPath(path)
	if err != nil {
		return RecommendResult{Result: fail(err)}
	}

	d := e.decide(ctx, local)

	return RecommendResult{
		Result:         ok(),
		Recommendation: decision.Recommend(d),
		Decision:       &d,
	}
}

// RecommendBatch decides about all files concurrently. The results are keyed
// by the paths as they are given.
func (e *Engine) RecommendBatch(ctx context.Context, paths []string) map[string]RecommendResult {
	results := map[string]RecommendResult{}
	local := []string{}
	origin := map[string][]string{}

	for _, p := range paths {
		l, err := url.ToLocalPath(p)
		if err != nil {
			results[p] = RecommendResult{Result: fail(err)}
			continue
		}

		if _, seen := origin[l]; !seen {
			local = append(local, l)
		}

		origin[l] = append(origin[l], p)
	}

	for path, d := range e.decider.DecideBatchFunc(ctx, local, e.decide) {
		for _, p := range origin[path] {
			d := d
			results[p] = RecommendResult{
				Result:         ok(),
				Recommendation: decision.Recommend(d),
				Decision:       &d,
			}
		}
	}

	return results
}

func (e *Engine) decide(ctx context.Context, path string) decision.Decision {
	result, err := e.probe(ctx, path)
	if err != nil {
		e.logger.WithField("path", path).WithError(err).Warn().Log("Probing failed, falling back to full transcode")
		return decision.Fallback(path, err)
	}

	return e.decider.Decide(ctx, path, result)
}

// Transcode runs a transcode and blocks until it is finished. onProgress
// may be nil.
func (e *Engine) Transcode(ctx context.Context, req TranscodeRequest, onProgress func(process.Progress)) TranscodeResult {
	input, err := url.ToLocalPath(req.Input)
	if err != nil {
		return TranscodeResult{Result: fail(err)}
	}

	output := ""

	if len(req.Output) != 0 {
		output, err = url.ToLocalPath(req.Output)
		if err != nil {
			return TranscodeResult{Result: fail(err)}
		}
	}

	d := e.decide(ctx, input)

	if req.Options != nil {
		d.Options = *req.Options
	} else if d.Strategy == decision.NotNeeded {
		return TranscodeResult{Result: fail(ErrNotNeeded)}
	}

	logger := e.logger.WithFields(log.Fields{
		"input":    input,
		"strategy": d.Strategy.String(),
	})

	logger.Info().Log("Transcoding")

	output, err = e.executor.Start(ctx, input, output, d, func(p process.Progress) {
		e.publish(Event{Type: EventProgress, Input: input, Progress: &p})

		if onProgress != nil {
			onProgress(p)
		}
	})

	if errors.Is(err, process.ErrBusy) {
		return TranscodeResult{Result: fail(err)}
	}

	result := TranscodeResult{
		Result:     ok(),
		OutputPath: url.ToFileURL(output),
	}

	// A given file URL is handed back as it is, its escapes may differ
	// in case from the ones of ToFileURL.
	if url.IsFileURL(req.Output) {
		result.OutputPath = req.Output
	}

	switch {
	case err == nil:
		e.publish(Event{Type: EventCompleted, Input: input})
	case errors.Is(err, process.ErrCancelled):
		result.Result = Result{Success: false, Error: CancelledPrefix + " " + err.Error()}
		result.Cancelled = true
		e.publish(Event{Type: EventCancelled, Input: input})
	default:
		result.Result = fail(err)
		e.publish(Event{Type: EventFailed, Input: input, Error: err.Error()})
	}

	return result
}

// CancelTranscode cancels the running transcode.
func (e *Engine) CancelTranscode() Result {
	if !e.executor.Cancel() {
		return fail(ErrNotRunning)
	}

	return ok()
}

// Status returns the status of the running transcode.
func (e *Engine) Status() (process.Status, bool) {
	return e.executor.Current()
}

// GetInstallPath returns the path ffmpeg is installed to.
func (e *Engine) GetInstallPath() PathResult {
	return PathResult{
		Result: ok(),
		Path:   e.installer.Path(),
	}
}

// GetDataDirectory returns the directory of the application data.
func (e *Engine) GetDataDirectory() PathResult {
	return PathResult{
		Result: ok(),
		Path:   e.dataDir,
	}
}

// Subscribe returns a channel with all events. The events are dropped if
// the channel is full. The returned function must be called to unsubscribe.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	id := shortuuid.New()
	ch := make(chan Event, 64)

	e.subLock.Lock()
	e.subscribers[id] = ch
	e.subLock.Unlock()

	unsubscribe := func() {
		e.subLock.Lock()
		defer e.subLock.Unlock()

		if _, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(ch)
		}
	}

	return ch, unsubscribe
}

func (e *Engine) publish(event Event) {
	e.subLock.Lock()
	defer e.subLock.Unlock()

	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Stats returns the counters of the engine.
func (e *Engine) Stats() Stats {
	e.statsLock.Lock()
	stats := Stats{
		Downloads:     e.downloads,
		DownloadFails: make(map[string]uint64, len(e.downloadFails)),
		Probes:        e.probes,
		ProbeFails:    make(map[string]uint64, len(e.probeFails)),
	}

	for k, v := range e.downloadFails {
		stats.DownloadFails[k] = v
	}

	for k, v := range e.probeFails {
		stats.ProbeFails[k] = v
	}
	e.statsLock.Unlock()

	e.subLock.Lock()
	stats.Subscribers = len(e.subscribers)
	e.subLock.Unlock()

	stats.Transcodes = e.executor.Stats()

	return stats
}
