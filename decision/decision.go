// Package decision decides which transcode, if any, is required to make a
// media file playable in the playback environment.
package decision

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/subplayer/mediacore/ffmpeg/probe"
	"github.com/subplayer/mediacore/ffmpeg/skills"
	"github.com/subplayer/mediacore/log"

	"golang.org/x/sync/errgroup"
)

// Decision is the plan for a single file.
type Decision struct {
	Path             string        `json:"path"`
	Strategy         Strategy      `json:"strategy" swaggertype:"string" enums:"not_needed,container_only,audio_only,video_only,full_transcode"`
	Reasons          []string      `json:"reasons"`
	Options          Options       `json:"options"`
	EstimatedMinutes int           `json:"estimatedMinutes"`
	Priority         Priority      `json:"priority,omitempty"`
	OutputFormat     string        `json:"outputFormat"`
	Duration         float64       `json:"duration"`
	Probe            *probe.Result `json:"probe,omitempty"`
}

// ReasonMetadataUnavailable is the reason of the fallback decision if a file
// couldn't be probed.
const ReasonMetadataUnavailable = "metadata unavailable"

type Config struct {
	Matrix skills.Matrix

	// Prober is used if no probe result is given.
	Prober probe.Prober

	// Concurrency is the number of files that are probed in parallel by
	// DecideBatch. Defaults to 4.
	Concurrency int

	Logger log.Logger
}

// Maker decides about transcodes. It is safe for concurrent use.
type Maker struct {
	matrix      skills.Matrix
	prober      probe.Prober
	concurrency int
	skills      atomic.Pointer[skills.Skills]
	logger      log.Logger
}

func New(config Config) *Maker {
	m := &Maker{
		matrix:      config.Matrix,
		prober:      config.Prober,
		concurrency: config.Concurrency,
		logger:      config.Logger,
	}

	if m.concurrency <= 0 {
		m.concurrency = 4
	}

	if m.logger == nil {
		m.logger = log.New("")
	}

	return m
}

// SetSkills tells the maker which encoders the installed ffmpeg provides.
// Decisions that need a missing encoder get an additional reason.
func (m *Maker) SetSkills(s skills.Skills) {
	m.skills.Store(&s)
}

// Matrix returns the capability matrix the decisions are based on.
func (m *Maker) Matrix() skills.Matrix {
	return m.matrix
}

// Decide returns the decision for the file at path. If result is nil, the
// file will be probed. Decide never fails, if the file can't be probed the
// decision is a full transcode.
func (m *Maker) Decide(ctx context.Context, path string, result *probe.Result) Decision {
	if result == nil {
		if m.prober == nil {
			return Fallback(path, fmt.Errorf("no prober available"))
		}

		var err error

		result, err = m.prober.Probe(ctx, path)
		if err != nil {
			m.logger.WithField("path", path).WithError(err).Warn().Log("Probing failed, falling back to full transcode")
			return Fallback(path, err)
		}
	}

	d := m.decide(path, result)

	m.logger.WithFields(log.Fields{
		"path":     path,
		"strategy": d.Strategy.String(),
		"reasons":  d.Reasons,
		"minutes":  d.EstimatedMinutes,
	}).Debug().Log("Decided")

	return d
}

func (m *Maker) decide(path string, result *probe.Result) Decision {
	reasons := []string{}

	videoNeeds := !m.matrix.Video(result.VideoCodec)
	if videoNeeds {
		reasons = append(reasons, fmt.Sprintf("video codec %s is not supported", result.VideoCodec))
	}

	audioNeeds := result.AudioCodec != "none" && !m.matrix.Audio(result.AudioCodec)
	if audioNeeds {
		reasons = append(reasons, fmt.Sprintf("audio codec %s is not supported", result.AudioCodec))
	}

	container := result.Container
	if len(container) == 0 {
		container = probe.Container(path)
	}

	containerNeeds := !m.matrix.Container(container)
	if containerNeeds {
		reasons = append(reasons, fmt.Sprintf("container %s is not supported", container))
	}

	strategy, priority := Classify(videoNeeds, audioNeeds, containerNeeds)
	media := newMedia(result.Duration, result.Resolution, result.Bitrate)

	d := Decision{
		Path:             path,
		Strategy:         strategy,
		Reasons:          reasons,
		Options:          synthesize(strategy, media),
		EstimatedMinutes: estimate(strategy, media),
		Priority:         priority,
		OutputFormat:     "mp4",
		Duration:         result.Duration,
		Probe:            result,
	}

	if strategy == NotNeeded {
		d.OutputFormat = container
	}

	if s := m.skills.Load(); s != nil {
		for _, encoder := range []string{d.Options.VideoCodec, d.Options.AudioCodec} {
			if len(encoder) == 0 || encoder == "copy" {
				continue
			}

			if !s.HasEncoder(encoder) {
				d.Reasons = append(d.Reasons, fmt.Sprintf("encoder %s is not available", encoder))
			}
		}
	}

	return d
}

// Fallback returns the decision for a file that couldn't be probed.
func Fallback(path string, err error) Decision {
	m := media{}

	return Decision{
		Path:         path,
		Strategy:     FullTranscode,
		Reasons:      []string{ReasonMetadataUnavailable + ": " + err.Error()},
		Options:      synthesize(FullTranscode, m),
		Priority:     PriorityHigh,
		OutputFormat: "mp4",
	}
}

// DecideBatch decides for all files concurrently. A file that can't be
// probed doesn't affect the others.
func (m *Maker) DecideBatch(ctx context.Context, paths []string) map[string]Decision {
	return m.DecideBatchFunc(ctx, paths, func(ctx context.Context, path string) Decision {
		return m.Decide(ctx, path, nil)
	})
}

// DecideBatchFunc calls decide for all files with the concurrency of the
// maker and collects the decisions by path.
func (m *Maker) DecideBatchFunc(ctx context.Context, paths []string, decide func(ctx context.Context, path string) Decision) map[string]Decision {
	decisions := make(map[string]Decision, len(paths))
	lock := sync.Mutex{}

	wg := errgroup.Group{}
	wg.SetLimit(m.concurrency)

	for _, path := range paths {
		path := path
		wg.Go(func() error {
			d := decide(ctx, path)

			lock.Lock()
			decisions[path] = d
			lock.Unlock()

			return nil
		})
	}

	wg.Wait()

	return decisions
}
