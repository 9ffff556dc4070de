package decision

import (
	"fmt"
	"strings"
)

// Recommendation is the decision in words.
type Recommendation struct {
	Strategy   Strategy `json:"strategy" swaggertype:"string"`
	Text       string   `json:"recommendation"`
	CanExecute bool     `json:"canExecute"`
}

// Recommend turns a decision into a recommendation. Only a file that
// doesn't need any change can't be executed.
func Recommend(d Decision) Recommendation {
	r := Recommendation{
		Strategy:   d.Strategy,
		CanExecute: d.Strategy != NotNeeded,
	}

	switch d.Strategy {
	case NotNeeded:
		r.Text = "The file can be played directly."
	case ContainerOnly:
		r.Text = "Remux into MP4 without re-encoding"
	case AudioOnly:
		r.Text = fmt.Sprintf("Re-encode the audio to AAC %s and keep the video", d.Options.AudioBitrate)
	case VideoOnly:
		r.Text = fmt.Sprintf("Re-encode the video to H.264 (crf %d, preset %s) and keep the audio", d.Options.CRF, d.Options.Preset)
	case FullTranscode:
		r.Text = fmt.Sprintf("Re-encode the video to H.264 (crf %d, preset %s) and the audio to AAC %s", d.Options.CRF, d.Options.Preset, d.Options.AudioBitrate)
	}

	if r.CanExecute {
		if d.EstimatedMinutes > 0 {
			r.Text += fmt.Sprintf(", about %d min", d.EstimatedMinutes)
		}

		r.Text += "."
	}

	if len(d.Reasons) != 0 {
		r.Text += " Reason: " + strings.Join(d.Reasons, "; ") + "."
	}

	return r
}
