package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Progress is a snapshot of a running transcode.
type Progress struct {
	Percent float64 `json:"progress"`
	Time    string  `json:"time"`
	FPS     string  `json:"fps"`
	Bitrate string  `json:"bitrate"`
	Speed   string  `json:"speed"`

	Frame   uint64  `json:"frame,omitempty"`
	ETA     float64 `json:"eta,omitempty"`
	Seconds float64 `json:"-"`
}

// ProgressLine parses a progress line of ffmpeg. Only lines with a time= field
// are progress lines, for all other lines false is returned. The percentage
// is relative to the total duration in seconds, clamped to 100. It is 0 if
// the total duration is not known.
func ProgressLine(line string, total float64) (Progress, bool) {
	matches := reTime.FindStringSubmatch(line)
	if matches == nil {
		return Progress{}, false
	}

	seconds := clock(matches[1:])

	p := Progress{
		Seconds: seconds,
		Time:    formatClock(seconds),
		Percent: Percent(seconds, total),
	}

	if matches := reFPS.FindStringSubmatch(line); matches != nil {
		p.FPS = matches[1]
	}

	if matches := reProgressBitrate.FindStringSubmatch(line); matches != nil {
		p.Bitrate = strings.ReplaceAll(matches[1], " ", "")
	}

	if matches := reSpeed.FindStringSubmatch(line); matches != nil {
		p.Speed = matches[1]
	}

	if matches := reFrame.FindStringSubmatch(line); matches != nil {
		p.Frame, _ = strconv.ParseUint(matches[1], 10, 64)
	}

	return p, true
}

// Percent returns 100*seconds/total clamped to [0, 100], or 0 if the total
// is unknown.
func Percent(seconds, total float64) float64 {
	if total <= 0 {
		return 0
	}

	percent := 100 * seconds / total

	if percent > 100 {
		return 100
	}

	if percent < 0 {
		return 0
	}

	return percent
}

func formatClock(seconds float64) string {
	s := int64(seconds)

	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
