package parse

import (
	"bufio"
	"strconv"
	"strings"
)

// ProbeInfo is the metadata found in the diagnostic output of `ffmpeg -i`.
type ProbeInfo struct {
	HasVideo   bool
	VideoCodec string
	Width      int
	Height     int

	// AudioCodec is "none" if the input has no audio stream.
	AudioCodec string

	// Duration in seconds, 0 if unknown.
	Duration float64

	// Bitrate in bits per second as decimal string, "unknown" if not present.
	Bitrate string

	Lines []string
}

// Resolution returns the video resolution as "WxH".
func (p ProbeInfo) Resolution() string {
	if p.Width == 0 && p.Height == 0 {
		return ""
	}

	return strconv.Itoa(p.Width) + "x" + strconv.Itoa(p.Height)
}

// Probe parses the output of `ffmpeg -i`. The four patterns are matched
// independently of each other and only the first match of each counts. The
// returned info has HasVideo set to false if no video stream was found.
func Probe(output string) ProbeInfo {
	info := ProbeInfo{
		AudioCodec: "none",
		Bitrate:    "unknown",
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var hasAudio, hasDuration, hasBitrate bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		info.Lines = append(info.Lines, line)

		if !info.HasVideo {
			if matches := reVideoStream.FindStringSubmatch(line); matches != nil {
				info.HasVideo = true
				info.VideoCodec = strings.ToLower(matches[1])
				info.Width, _ = strconv.Atoi(matches[2])
				info.Height, _ = strconv.Atoi(matches[3])
			}
		}

		if !hasAudio {
			if matches := reAudioStream.FindStringSubmatch(line); matches != nil {
				hasAudio = true
				info.AudioCodec = strings.ToLower(matches[1])
			}
		}

		if !hasDuration {
			if matches := reDuration.FindStringSubmatch(line); matches != nil {
				hasDuration = true
				info.Duration = clock(matches[1:])
			}
		}

		if !hasBitrate {
			if matches := reBitrate.FindStringSubmatch(line); matches != nil {
				hasBitrate = true
				info.Bitrate = matches[1] + "000"
			}
		}
	}

	return info
}
