package engine

import (
	"github.com/subplayer/mediacore/decision"
	"github.com/subplayer/mediacore/ffmpeg/probe"
	"github.com/subplayer/mediacore/process"
)

// CancelledPrefix marks the error of a cancelled transcode.
const CancelledPrefix = "[CANCELLED]"

// Result is the envelope of every command.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func fail(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

type ExistsResult struct {
	Result
	Exists bool `json:"exists"`
}

type VersionResult struct {
	Result
	Version string `json:"version,omitempty"`
}

type PathResult struct {
	Result
	Path string `json:"path,omitempty"`
}

type VideoInfoResult struct {
	Result
	Info *probe.Result `json:"info,omitempty"`
}

type RecommendResult struct {
	Result
	decision.Recommendation
	Decision *decision.Decision `json:"decision,omitempty"`
}

type TranscodeResult struct {
	Result

	// OutputPath is a file:// URL.
	OutputPath string `json:"outputPath,omitempty"`
	Cancelled  bool   `json:"cancelled,omitempty"`
}

// TranscodeRequest describes a transcode. Input and Output may be local
// paths or file:// URLs. If Output is empty, it is derived from the input.
// If Options is nil, the options of the decision for the input are used.
type TranscodeRequest struct {
	Input   string            `json:"input"`
	Output  string            `json:"output,omitempty"`
	Options *decision.Options `json:"options,omitempty"`
}

// Event types
const (
	EventProgress  = "progress"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
	EventFailed    = "failed"
	EventDownload  = "download"
)

// Event is published to all subscribers.
type Event struct {
	Type     string            `json:"type"`
	Input    string            `json:"input,omitempty"`
	Progress *process.Progress `json:"progress,omitempty"`
	Percent  float64           `json:"percent,omitempty"`
	Error    string            `json:"error,omitempty"`
}
