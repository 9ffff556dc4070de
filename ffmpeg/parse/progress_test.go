package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgressLine(t *testing.T) {
	line := "frame= 1500 fps= 48 q=28.0 size=   10240kB time=00:01:02.50 bitrate=1342.2kbits/s speed=1.93x"

	p, ok := ProgressLine(line, 600)
	require.True(t, ok)

	require.InDelta(t, 100*62.5/600, p.Percent, 0.0001)
	require.Equal(t, "00:01:02", p.Time)
	require.Equal(t, "48", p.FPS)
	require.Equal(t, "1342.2kbits/s", p.Bitrate)
	require.Equal(t, "1.93x", p.Speed)
	require.Equal(t, uint64(1500), p.Frame)
	require.Equal(t, 62.5, p.Seconds)
}

func TestProgressLineIdempotent(t *testing.T) {
	line := "time=00:01:02.50"

	a, ok := ProgressLine(line, 100)
	require.True(t, ok)

	b, ok := ProgressLine(line, 100)
	require.True(t, ok)

	require.Equal(t, a, b)
	require.Equal(t, 62.5, a.Percent)
}

func TestProgressLineClamped(t *testing.T) {
	p, ok := ProgressLine("time=00:01:02.50", 30)
	require.True(t, ok)
	require.Equal(t, 100.0, p.Percent)
}

func TestProgressLineUnknownDuration(t *testing.T) {
	p, ok := ProgressLine("time=00:01:02.50", 0)
	require.True(t, ok)
	require.Equal(t, 0.0, p.Percent)
	require.Equal(t, "00:01:02", p.Time)
}

func TestProgressLineUnrelated(t *testing.T) {
	lines := []string{
		"",
		"Press [q] to stop, [?] for help",
		"Stream mapping:",
		"  Stream #0:0 -> #0:0 (hevc (native) -> h264 (libx264))",
		"frame=    0 fps=0.0 q=0.0 size=       0kB time=N/A bitrate=N/A speed=N/A",
		"size=N/A time=-577014:32:22.77 bitrate=N/A speed=N/A",
		"\x00\xff garbage",
	}

	for _, line := range lines {
		require.NotPanics(t, func() {
			_, ok := ProgressLine(line, 600)
			require.False(t, ok, line)
		})
	}
}

func TestPercent(t *testing.T) {
	require.Equal(t, 0.0, Percent(10, 0))
	require.Equal(t, 0.0, Percent(10, -1))
	require.Equal(t, 50.0, Percent(30, 60))
	require.Equal(t, 100.0, Percent(90, 60))
	require.Equal(t, 0.0, Percent(-5, 60))
}

func TestFormatClock(t *testing.T) {
	require.Equal(t, "00:00:00", formatClock(0))
	require.Equal(t, "01:02:03", formatClock(3723.99))
	require.Equal(t, "100:00:00", formatClock(360000))
}
