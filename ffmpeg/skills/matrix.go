package skills

import (
	"fmt"
	"maps"
	"strings"
)

// Profiles of playback environments
const (
	ProfileChromium = "chromium"
	ProfileSafari   = "safari"
	ProfileElectron = "electron"
)

// Overrides replace single entries of a profile. Keys are codec or container
// names, e.g. "hevc", "h264.high", "ac3" or "mkv".
type Overrides struct {
	Video      map[string]bool
	Audio      map[string]bool
	Containers map[string]bool
}

// Matrix is the codec and container support of the playback environment.
// It is not modified after creation.
type Matrix struct {
	profile    string
	video      map[string]bool
	audio      map[string]bool
	containers map[string]bool
}

func chromium() Matrix {
	return Matrix{
		video: map[string]bool{
			"h264.baseline": true,
			"h264.main":     true,
			"h264.high":     true,
			"hevc":          false,
			"av1":           true,
			"vp9":           true,
			"vp8":           true,
		},
		audio: map[string]bool{
			"aac":    true,
			"ac3":    false,
			"dts":    false,
			"truehd": false,
			"pcm":    false,
			"mp3":    true,
			"opus":   true,
			"vorbis": true,
			"flac":   true,
		},
		containers: map[string]bool{
			"mp4":  true,
			"webm": true,
			"mkv":  false,
			"ogg":  true,
		},
	}
}

func profile(name string) (Matrix, error) {
	switch name {
	case ProfileChromium, "":
		m := chromium()
		m.profile = ProfileChromium
		return m, nil
	case ProfileElectron:
		m := chromium()
		m.profile = ProfileElectron
		m.video["hevc"] = true
		return m, nil
	case ProfileSafari:
		m := chromium()
		m.profile = ProfileSafari
		m.video["hevc"] = true
		m.video["av1"] = false
		m.video["vp9"] = false
		m.video["vp8"] = false
		m.audio["ac3"] = true
		m.audio["opus"] = false
		m.audio["vorbis"] = false
		m.containers["webm"] = false
		m.containers["ogg"] = false
		return m, nil
	}

	return Matrix{}, fmt.Errorf("unknown playback profile %q", name)
}

// NewMatrix returns the matrix of the named profile with the overrides
// applied. TrueHD is never supported.
func NewMatrix(name string, overrides Overrides) (Matrix, error) {
	m, err := profile(name)
	if err != nil {
		return Matrix{}, err
	}

	for codec, supported := range overrides.Video {
		codec = strings.ToLower(codec)

		if codec == "h264" {
			m.video["h264.baseline"] = supported
			m.video["h264.main"] = supported
			m.video["h264.high"] = supported
			continue
		}

		m.video[normalizeVideo(codec)] = supported
	}

	for codec, supported := range overrides.Audio {
		m.audio[normalizeAudio(strings.ToLower(codec))] = supported
	}

	for container, supported := range overrides.Containers {
		m.containers[strings.ToLower(container)] = supported
	}

	m.audio["truehd"] = false

	return m, nil
}

func normalizeVideo(codec string) string {
	switch codec {
	case "h265", "hvc1", "hev1":
		return "hevc"
	case "libdav1d", "av01":
		return "av1"
	}

	return codec
}

func normalizeAudio(codec string) string {
	switch {
	case codec == "eac3", codec == "ac-3":
		return "ac3"
	case codec == "dca", strings.HasPrefix(codec, "dts"):
		return "dts"
	case strings.HasPrefix(codec, "pcm"):
		return "pcm"
	case codec == "mlp":
		return "truehd"
	}

	return codec
}

// Profile returns the name of the profile the matrix is based on.
func (m Matrix) Profile() string {
	return m.profile
}

// Video returns whether the video codec as reported by ffmpeg is playable.
// H.264 is playable if any of its profiles is. Unknown codecs are not.
func (m Matrix) Video(codec string) bool {
	codec = normalizeVideo(strings.ToLower(codec))

	if codec == "h264" {
		return m.video["h264.baseline"] || m.video["h264.main"] || m.video["h264.high"]
	}

	return m.video[codec]
}

// Audio returns whether the audio codec as reported by ffmpeg is playable.
func (m Matrix) Audio(codec string) bool {
	return m.audio[normalizeAudio(strings.ToLower(codec))]
}

// Container returns whether the container (file extension without dot) is playable.
func (m Matrix) Container(container string) bool {
	container = strings.ToLower(strings.TrimPrefix(container, "."))

	switch container {
	case "m4v", "mov":
		container = "mp4"
	case "mka":
		container = "mkv"
	case "oga", "ogv":
		container = "ogg"
	}

	return m.containers[container]
}

// MatrixExport is the JSON representation of a Matrix.
type MatrixExport struct {
	Profile    string          `json:"profile"`
	Video      map[string]bool `json:"video"`
	Audio      map[string]bool `json:"audio"`
	Containers map[string]bool `json:"containers"`
}

func (m Matrix) Export() MatrixExport {
	return MatrixExport{
		Profile:    m.profile,
		Video:      maps.Clone(m.video),
		Audio:      maps.Clone(m.audio),
		Containers: maps.Clone(m.containers),
	}
}
