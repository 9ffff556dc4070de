package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncoders(t *testing.T) {
	output := `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 VFS..D libvpx-vp9           libvpx VP9 (codec vp9)
 A....D aac                  AAC (Advanced Audio Coding)
 S..... srt                  SubRip subtitle`

	encoders := Encoders(output)

	require.Equal(t, []Encoder{
		{ID: "libx264", Type: "video", Name: "libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)"},
		{ID: "libvpx-vp9", Type: "video", Name: "libvpx VP9 (codec vp9)"},
		{ID: "aac", Type: "audio", Name: "AAC (Advanced Audio Coding)"},
		{ID: "srt", Type: "subtitle", Name: "SubRip subtitle"},
	}, encoders)
}
