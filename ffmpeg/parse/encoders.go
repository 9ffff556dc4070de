package parse

import (
	"bufio"
	"regexp"
	"strings"
)

// Encoder is an encoder as listed by `ffmpeg -encoders`.
type Encoder struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
var reEncoder = regexp.MustCompile(`^\s*([VAS])[F.][S.][X.][B.][D.] ([0-9A-Za-z_\-]+)\s+(.*)$`)

// Encoders parses the output of `ffmpeg -encoders`. The legend at the top is
// skipped because its ID column is "=".
func Encoders(output string) []Encoder {
	encoders := []Encoder{}

	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		matches := reEncoder.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		encoder := Encoder{
			ID:   matches[2],
			Name: strings.TrimSpace(matches[3]),
		}

		switch matches[1] {
		case "V":
			encoder.Type = "video"
		case "A":
			encoder.Type = "audio"
		case "S":
			encoder.Type = "subtitle"
		}

		encoders = append(encoders, encoder)
	}

	return encoders
}
