package api

import (
	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/net/url"
	"github.com/subplayer/mediacore/process"
)

// ProbeRequest asks for the metadata of a file. Path is a local path or a
// file:// URL.
type ProbeRequest struct {
	Path string `json:"path" validate:"required" jsonschema:"minLength=1"`
}

// RecommendRequest asks for a decision about one file or a batch of files.
type RecommendRequest struct {
	Path  string   `json:"path" validate:"required_without=Paths"`
	Paths []string `json:"paths" validate:"required_without=Path,max=1000,dive,required"`
}

// TranscodeOptions overrides the encoder options of the decision.
type TranscodeOptions struct {
	VideoCodec   string `json:"videoCodec" validate:"omitempty,printascii,max=32"`
	CRF          int    `json:"crf" validate:"gte=0,lte=51"`
	Preset       string `json:"preset" validate:"omitempty,oneof=ultrafast superfast veryfast faster fast medium slow slower veryslow"`
	AudioCodec   string `json:"audioCodec" validate:"omitempty,printascii,max=32"`
	AudioBitrate string `json:"audioBitrate" validate:"omitempty,alphanum"`
	Format       string `json:"format" validate:"omitempty,alphanum"`
}

// Marshal converts the options into the options of a decision.
func (o *TranscodeOptions) Marshal() *decision.Options {
	if o == nil {
		return nil
	}

	return &decision.Options{
		VideoCodec:   o.VideoCodec,
		CRF:          o.CRF,
		Preset:       o.Preset,
		AudioCodec:   o.AudioCodec,
		AudioBitrate: o.AudioBitrate,
		Format:       o.Format,
	}
}

// TranscodeRequest starts a transcode. If Output is empty, the output path
// is derived from the input.
type TranscodeRequest struct {
	Input   string            `json:"input" validate:"required" jsonschema:"minLength=1"`
	Output  string            `json:"output"`
	Options *TranscodeOptions `json:"options" validate:"omitempty"`
}

// TranscodeStatus is the running transcode.
type TranscodeStatus struct {
	ID         string            `json:"id"`
	PID        int32             `json:"pid" format:"int32"`
	Input      string            `json:"input"`
	Output     string            `json:"output"`
	Strategy   string            `json:"strategy"`
	StartedAt  int64             `json:"started_at" format:"int64"`
	Runtime    int64             `json:"runtime_seconds" format:"int64"`
	Cancelling bool              `json:"cancelling"`
	Progress   *process.Progress `json:"progress,omitempty"`
	CPU        float64           `json:"cpu_usage"`
	Memory     uint64            `json:"memory_bytes" format:"uint64"`
}

// Unmarshal converts the status of the executor. Paths become file:// URLs.
func (s *TranscodeStatus) Unmarshal(status process.Status) {
	s.ID = status.ID
	s.PID = status.PID
	s.Input = url.ToFileURL(status.Input)
	s.Output = url.ToFileURL(status.Output)
	s.Strategy = status.Strategy.String()
	s.StartedAt = status.Started.Unix()
	s.Runtime = int64(status.Runtime)
	s.Cancelling = status.Cancelling
	s.CPU = status.Usage.CPU
	s.Memory = status.Usage.Memory

	if status.Progress.Seconds > 0 || status.Progress.Percent > 0 {
		p := status.Progress
		s.Progress = &p
	}
}

// RecommendBatch is the envelope of a batch recommendation, keyed by the
// paths as they have been given.
type RecommendBatch struct {
	Success bool                              `json:"success"`
	Results map[string]engine.RecommendResult `json:"results"`
}

// Stats is the envelope of the engine counters.
type Stats struct {
	Success bool         `json:"success"`
	Stats   engine.Stats `json:"stats"`
}

// TranscodeState is the envelope of the status request.
type TranscodeState struct {
	Success bool             `json:"success"`
	Running bool             `json:"running"`
	Status  *TranscodeStatus `json:"status,omitempty"`
}
