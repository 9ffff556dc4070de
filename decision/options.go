package decision

import (
	"math"
	"strconv"
	"strings"
)

// Options are the encoder options for ffmpeg.
type Options struct {
	VideoCodec   string `json:"videoCodec,omitempty"`
	CRF          int    `json:"crf,omitempty"`
	Preset       string `json:"preset,omitempty"`
	AudioCodec   string `json:"audioCodec,omitempty"`
	AudioBitrate string `json:"audioBitrate,omitempty"`
	Format       string `json:"format,omitempty"`
}

// IsZero returns whether no options are set.
func (o Options) IsZero() bool {
	return o == Options{}
}

// Args returns the options as ffmpeg arguments for the output.
func (o Options) Args() []string {
	if o.IsZero() {
		return nil
	}

	args := []string{}

	if len(o.VideoCodec) != 0 {
		args = append(args, "-c:v", o.VideoCodec)

		if o.CRF != 0 {
			args = append(args, "-crf", strconv.Itoa(o.CRF))
		}

		if len(o.Preset) != 0 {
			args = append(args, "-preset", o.Preset)
		}
	}

	if len(o.AudioCodec) != 0 {
		args = append(args, "-c:a", o.AudioCodec)

		if len(o.AudioBitrate) != 0 {
			args = append(args, "-b:a", o.AudioBitrate)
		}
	}

	// Subtitles are not carried over, image based subtitles can't be
	// written to MP4.
	args = append(args, "-sn")

	if len(o.Format) != 0 {
		args = append(args, "-f", o.Format)
	}

	return args
}

func synthesize(strategy Strategy, m media) Options {
	switch strategy {
	case ContainerOnly:
		return Options{
			VideoCodec: "copy",
			AudioCodec: "copy",
			Format:     "mp4",
		}
	case AudioOnly:
		return Options{
			VideoCodec:   "copy",
			AudioCodec:   "aac",
			AudioBitrate: audioBitrate(m.bitrate),
			Format:       "mp4",
		}
	case VideoOnly:
		return Options{
			VideoCodec: "libx264",
			CRF:        crf(m.tier),
			Preset:     preset(m.duration),
			AudioCodec: "copy",
			Format:     "mp4",
		}
	case FullTranscode:
		return Options{
			VideoCodec:   "libx264",
			CRF:          crf(m.tier),
			Preset:       preset(m.duration),
			AudioCodec:   "aac",
			AudioBitrate: audioBitrate(m.bitrate),
			Format:       "mp4",
		}
	}

	return Options{}
}

// audioBitrate picks the AAC bitrate from the bitrate of the source in bits per second.
func audioBitrate(bitrate int64) string {
	switch {
	case bitrate > 10_000_000:
		return "192k"
	case bitrate > 5_000_000:
		return "128k"
	}

	return "96k"
}

func crf(tier int) int {
	switch {
	case tier >= 2160:
		return 20
	case tier >= 1080:
		return 23
	}

	return 25
}

func preset(duration float64) string {
	switch {
	case duration > 2*3600:
		return "slow"
	case duration > 3600:
		return "medium"
	}

	return "fast"
}

func resolutionFactor(tier int) float64 {
	switch {
	case tier <= 480:
		return 1
	case tier <= 720:
		return 1.5
	case tier <= 1080:
		return 2
	case tier <= 1440:
		return 2.5
	}

	return 4
}

func strategyFactor(strategy Strategy) float64 {
	switch strategy {
	case ContainerOnly:
		return 0.05
	case AudioOnly:
		return 0.1
	case VideoOnly:
		return 0.8
	case FullTranscode:
		return 1.0
	}

	return 0
}

// estimate returns the expected duration of the transcode in minutes.
func estimate(strategy Strategy, m media) int {
	return int(math.Round(m.duration / 60 * resolutionFactor(m.tier) * strategyFactor(strategy)))
}

// media are the numbers of a probe result the options depend on.
type media struct {
	duration float64
	bitrate  int64

	// tier is the height of the 16:9 frame the resolution fits in, e.g.
	// 1080 for 1920x800 and 2160 for 3840x1600. Portrait frames are
	// rotated first, 1080x1920 is 1080.
	tier int
}

func newMedia(duration float64, resolution, bitrate string) media {
	m := media{
		duration: duration,
	}

	m.bitrate, _ = strconv.ParseInt(bitrate, 10, 64)

	w, h, found := strings.Cut(resolution, "x")
	if found {
		width, _ := strconv.Atoi(w)
		height, _ := strconv.Atoi(h)

		if height > width {
			width, height = height, width
		}

		m.tier = max(height, width*9/16)
	}

	return m
}
