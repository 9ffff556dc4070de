package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/subplayer/mediacore/ffmpeg/parse"
	"github.com/subplayer/mediacore/ffmpeg/probe"
	"github.com/subplayer/mediacore/ffmpeg/skills"
)

type dummyProber struct {
	results map[string]*probe.Result
	calls   atomic.Int64
}

func (p *dummyProber) Probe(ctx context.Context, path string) (*probe.Result, error) {
	p.calls.Add(1)

	if r, ok := p.results[path]; ok {
		return r, nil
	}

	return nil, &probe.Error{Kind: probe.KindParse, Path: path, Err: probe.ErrNoVideoStream}
}

func newMaker(t *testing.T, prober probe.Prober) *Maker {
	matrix, err := skills.NewMatrix(skills.ProfileChromium, skills.Overrides{})
	require.NoError(t, err)

	return New(Config{
		Matrix: matrix,
		Prober: prober,
	})
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		video, audio, container bool
		strategy                Strategy
		priority                Priority
	}{
		{false, false, false, NotNeeded, PriorityNone},
		{false, false, true, ContainerOnly, PriorityLow},
		{false, true, false, AudioOnly, PriorityMedium},
		{false, true, true, AudioOnly, PriorityMedium},
		{true, false, false, VideoOnly, PriorityMedium},
		{true, false, true, VideoOnly, PriorityMedium},
		{true, true, false, FullTranscode, PriorityHigh},
		{true, true, true, FullTranscode, PriorityHigh},
	}

	require.Equal(t, 8, len(strategyTable))

	for _, tc := range tests {
		strategy, priority := Classify(tc.video, tc.audio, tc.container)
		require.Equal(t, tc.strategy, strategy, "%v", tc)
		require.Equal(t, tc.priority, priority, "%v", tc)
	}
}

func TestStrategy(t *testing.T) {
	require.Less(t, NotNeeded.Severity(), ContainerOnly.Severity())
	require.Less(t, ContainerOnly.Severity(), AudioOnly.Severity())
	require.Equal(t, AudioOnly.Severity(), VideoOnly.Severity())
	require.Less(t, VideoOnly.Severity(), FullTranscode.Severity())

	for _, s := range []Strategy{NotNeeded, ContainerOnly, AudioOnly, VideoOnly, FullTranscode} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var parsed Strategy
		require.NoError(t, parsed.UnmarshalText(text))
		require.Equal(t, s, parsed)
	}

	_, err := ParseStrategy("magic")
	require.Error(t, err)
	require.Equal(t, "unknown", Strategy(42).String())
}

func TestScenarioHEVCInMKV(t *testing.T) {
	maker := newMaker(t, nil)

	result := &probe.Result{
		VideoCodec: "hevc",
		AudioCodec: "aac",
		Resolution: "1920x1080",
		Duration:   600,
		Bitrate:    "8000",
		Container:  "mkv",
	}

	d := maker.Decide(context.Background(), "/media/movie.mkv", result)

	require.Equal(t, VideoOnly, d.Strategy)
	require.Equal(t, PriorityMedium, d.Priority)
	require.Equal(t, 23, d.Options.CRF)
	require.Equal(t, "fast", d.Options.Preset)
	require.Equal(t, 16, d.EstimatedMinutes)
	require.Equal(t, "mp4", d.OutputFormat)
	require.Equal(t, 600.0, d.Duration)

	diff := cmp.Diff([]string{
		"video codec hevc is not supported",
		"container mkv is not supported",
	}, d.Reasons)
	require.Empty(t, diff)

	require.Equal(t, []string{"-c:v", "libx264", "-crf", "23", "-preset", "fast", "-c:a", "copy", "-sn", "-f", "mp4"}, d.Options.Args())
}

func TestScenarioAC3InMP4(t *testing.T) {
	maker := newMaker(t, nil)

	result := &probe.Result{
		VideoCodec: "h264",
		AudioCodec: "ac3",
		Resolution: "1920x1080",
		Duration:   5400,
		Bitrate:    "8000000",
	}

	d := maker.Decide(context.Background(), "/media/movie.mp4", result)

	require.Equal(t, AudioOnly, d.Strategy)
	require.Equal(t, "128k", d.Options.AudioBitrate)
	require.Equal(t, "copy", d.Options.VideoCodec)
	require.Equal(t, "aac", d.Options.AudioCodec)
	require.Equal(t, 18, d.EstimatedMinutes)
}

func TestScenarioProbeFailure(t *testing.T) {
	maker := newMaker(t, &dummyProber{})

	d := maker.Decide(context.Background(), "/media/broken.mkv", nil)

	require.Equal(t, FullTranscode, d.Strategy)
	require.Equal(t, PriorityHigh, d.Priority)
	require.Equal(t, 1, len(d.Reasons))
	require.True(t, strings.HasPrefix(d.Reasons[0], ReasonMetadataUnavailable))
	require.Equal(t, "libx264", d.Options.VideoCodec)
	require.Equal(t, "aac", d.Options.AudioCodec)
	require.Nil(t, d.Probe)
}

func TestDecideWithoutProber(t *testing.T) {
	maker := newMaker(t, nil)

	d := maker.Decide(context.Background(), "/media/movie.mkv", nil)
	require.Equal(t, FullTranscode, d.Strategy)
}

func TestNotNeeded(t *testing.T) {
	maker := newMaker(t, nil)

	d := maker.Decide(context.Background(), "/media/clip.webm", &probe.Result{
		VideoCodec: "vp9",
		AudioCodec: "opus",
		Resolution: "1280x720",
		Duration:   60,
		Container:  "webm",
	})

	require.Equal(t, NotNeeded, d.Strategy)
	require.Equal(t, PriorityNone, d.Priority)
	require.True(t, d.Options.IsZero())
	require.Nil(t, d.Options.Args())
	require.Equal(t, 0, d.EstimatedMinutes)
	require.Equal(t, "webm", d.OutputFormat)
	require.Empty(t, d.Reasons)
}

func TestNoAudioNeverNeedsAudioTranscode(t *testing.T) {
	maker := newMaker(t, nil)

	d := maker.Decide(context.Background(), "/media/silent.mkv", &probe.Result{
		VideoCodec: "h264",
		AudioCodec: "none",
		Resolution: "640x480",
		Duration:   120,
	})

	require.Equal(t, ContainerOnly, d.Strategy)
	require.Equal(t, PriorityLow, d.Priority)
	require.Equal(t, Options{VideoCodec: "copy", AudioCodec: "copy", Format: "mp4"}, d.Options)
	require.Equal(t, 0, d.EstimatedMinutes)
}

func TestTrueHDIsNeverSupported(t *testing.T) {
	matrix, err := skills.NewMatrix(skills.ProfileSafari, skills.Overrides{
		Audio: map[string]bool{"truehd": true},
	})
	require.NoError(t, err)

	maker := New(Config{Matrix: matrix})

	d := maker.Decide(context.Background(), "/media/bluray.mkv", &probe.Result{
		VideoCodec: "hevc",
		AudioCodec: "truehd",
		Resolution: "3840x2160",
		Duration:   3 * 3600,
		Bitrate:    "48000000",
	})

	require.Equal(t, AudioOnly, d.Strategy)
	require.Equal(t, "192k", d.Options.AudioBitrate)
}

func TestFullTranscodeOptions(t *testing.T) {
	maker := newMaker(t, nil)

	d := maker.Decide(context.Background(), "/media/uhd.mkv", &probe.Result{
		VideoCodec: "hevc",
		AudioCodec: "dts",
		Resolution: "3840x1600",
		Duration:   2*3600 + 1,
		Bitrate:    "40000000",
	})

	require.Equal(t, FullTranscode, d.Strategy)

	want := Options{
		VideoCodec:   "libx264",
		CRF:          20,
		Preset:       "slow",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		Format:       "mp4",
	}

	require.Empty(t, cmp.Diff(want, d.Options))
	require.Equal(t, 480, d.EstimatedMinutes)
}

func TestOptionBands(t *testing.T) {
	require.Equal(t, "192k", audioBitrate(10_000_001))
	require.Equal(t, "128k", audioBitrate(10_000_000))
	require.Equal(t, "128k", audioBitrate(5_000_001))
	require.Equal(t, "96k", audioBitrate(5_000_000))
	require.Equal(t, "96k", audioBitrate(0))

	require.Equal(t, 20, crf(2160))
	require.Equal(t, 23, crf(1080))
	require.Equal(t, 25, crf(720))
	require.Equal(t, 25, crf(0))

	require.Equal(t, "slow", preset(7201))
	require.Equal(t, "medium", preset(7200))
	require.Equal(t, "medium", preset(3601))
	require.Equal(t, "fast", preset(3600))

	require.Equal(t, 1.0, resolutionFactor(480))
	require.Equal(t, 1.5, resolutionFactor(720))
	require.Equal(t, 2.0, resolutionFactor(1080))
	require.Equal(t, 2.5, resolutionFactor(1440))
	require.Equal(t, 4.0, resolutionFactor(2160))
}

func TestMediaTier(t *testing.T) {
	tests := map[string]int{
		"1920x1080": 1080,
		"1920x800":  1080,
		"3840x1600": 2160,
		"1080x1920": 1080,
		"720x1280":  720,
		"1440x1440": 1440,
		"unknown":   0,
	}

	for resolution, tier := range tests {
		require.Equal(t, tier, newMedia(60, resolution, "").tier, resolution)
	}
}

func TestMissingEncoder(t *testing.T) {
	maker := newMaker(t, nil)
	maker.SetSkills(skills.Skills{
		Encoders: []parse.Encoder{{ID: "aac", Type: "audio"}},
	})

	d := maker.Decide(context.Background(), "/media/movie.mkv", &probe.Result{
		VideoCodec: "hevc",
		AudioCodec: "ac3",
		Resolution: "1920x1080",
		Duration:   60,
	})

	require.Contains(t, d.Reasons, "encoder libx264 is not available")
	require.NotContains(t, d.Reasons, "encoder aac is not available")
}

func TestDecideBatch(t *testing.T) {
	prober := &dummyProber{
		results: map[string]*probe.Result{},
	}

	paths := []string{}

	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("/media/%02d.mp4", i)
		paths = append(paths, path)

		if i%5 == 0 {
			continue
		}

		prober.results[path] = &probe.Result{
			VideoCodec: "h264",
			AudioCodec: "aac",
			Resolution: "1280x720",
			Duration:   60,
			Container:  "mp4",
		}
	}

	maker := newMaker(t, prober)

	decisions := maker.DecideBatch(context.Background(), paths)
	require.Equal(t, 20, len(decisions))
	require.Equal(t, int64(20), prober.calls.Load())

	for i, path := range paths {
		d, ok := decisions[path]
		require.True(t, ok)
		require.Equal(t, path, d.Path)

		if i%5 == 0 {
			require.Equal(t, FullTranscode, d.Strategy)
		} else {
			require.Equal(t, NotNeeded, d.Strategy)
		}
	}
}

func TestRecommend(t *testing.T) {
	r := Recommend(Decision{Strategy: NotNeeded})
	require.False(t, r.CanExecute)
	require.Equal(t, "The file can be played directly.", r.Text)

	for _, s := range []Strategy{ContainerOnly, AudioOnly, VideoOnly, FullTranscode} {
		r := Recommend(Decision{Strategy: s})
		require.True(t, r.CanExecute, s.String())
		require.Equal(t, s, r.Strategy)
	}

	r = Recommend(Fallback("/x.mkv", errors.New("exit 3")))
	require.True(t, r.CanExecute)
	require.Contains(t, r.Text, ReasonMetadataUnavailable)

	r = Recommend(Decision{
		Strategy:         VideoOnly,
		Options:          Options{CRF: 23, Preset: "fast"},
		EstimatedMinutes: 16,
	})
	require.Equal(t, "Re-encode the video to H.264 (crf 23, preset fast) and keep the audio, about 16 min.", r.Text)
}

func TestDecisionIgnoresLog(t *testing.T) {
	maker := newMaker(t, nil)

	a := &probe.Result{VideoCodec: "h264", AudioCodec: "aac", Resolution: "1920x1080", Duration: 60, Container: "mp4"}
	b := *a
	b.Log = []string{"Input #0"}

	da := maker.Decide(context.Background(), "/a.mp4", a)
	db := maker.Decide(context.Background(), "/a.mp4", &b)

	require.Empty(t, cmp.Diff(da, db, cmpopts.IgnoreFields(Decision{}, "Probe")))
}
