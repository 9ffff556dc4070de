package decision

import (
	"fmt"
)

// Strategy is the minimal operation that makes a file playable.
type Strategy int

const (
	NotNeeded Strategy = iota
	ContainerOnly
	AudioOnly
	VideoOnly
	FullTranscode
)

var strategyNames = map[Strategy]string{
	NotNeeded:     "not_needed",
	ContainerOnly: "container_only",
	AudioOnly:     "audio_only",
	VideoOnly:     "video_only",
	FullTranscode: "full_transcode",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}

	return "unknown"
}

// Severity orders the strategies by the amount of work they cause. Audio
// and video only have the same severity.
func (s Strategy) Severity() int {
	switch s {
	case NotNeeded:
		return 0
	case ContainerOnly:
		return 1
	case AudioOnly, VideoOnly:
		return 2
	}

	return 3
}

// Operation is the short name of the strategy as used in file names.
func (s Strategy) Operation() string {
	switch s {
	case ContainerOnly:
		return "remux"
	case AudioOnly:
		return "audio"
	case VideoOnly:
		return "video"
	case FullTranscode:
		return "transcode"
	}

	return "copy"
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	strategy, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}

	*s = strategy

	return nil
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}

	return NotNeeded, fmt.Errorf("unknown strategy %q", name)
}

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type needs struct {
	video     bool
	audio     bool
	container bool
}

type classification struct {
	strategy Strategy
	priority Priority
}

// A changed container doesn't matter as soon as a stream has to be
// encoded, the remux into MP4 is part of the encode.
var strategyTable = map[needs]classification{
	{video: false, audio: false, container: false}: {NotNeeded, PriorityNone},
	{video: false, audio: false, container: true}:  {ContainerOnly, PriorityLow},
	{video: false, audio: true, container: false}:  {AudioOnly, PriorityMedium},
	{video: false, audio: true, container: true}:   {AudioOnly, PriorityMedium},
	{video: true, audio: false, container: false}:  {VideoOnly, PriorityMedium},
	{video: true, audio: false, container: true}:   {VideoOnly, PriorityMedium},
	{video: true, audio: true, container: false}:   {FullTranscode, PriorityHigh},
	{video: true, audio: true, container: true}:    {FullTranscode, PriorityHigh},
}

// Classify returns the strategy and its priority for what needs to change.
func Classify(video, audio, container bool) (Strategy, Priority) {
	c := strategyTable[needs{video: video, audio: audio, container: container}]

	return c.strategy, c.priority
}
