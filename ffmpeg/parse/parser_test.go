package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParserStats(t *testing.T) {
	var progress []Progress

	p := New(Config{
		Duration: 100,
		OnProgress: func(pr Progress) {
			progress = append(progress, pr)
		},
	})
	defer p.Stop()

	p.Parse("Input #0, matroska,webm, from 'in.mkv':")
	p.Parse("frame=  100 fps= 25 q=28.0 size=     256kB time=00:00:04.00 bitrate= 524.3kbits/s speed=   1x")
	p.Parse("frame=  250 fps= 25 q=28.0 size=     512kB time=00:00:10.00 bitrate= 419.4kbits/s speed=   1x")

	require.Equal(t, 2, len(progress))
	require.Equal(t, 4.0, progress[0].Percent)
	require.Equal(t, 10.0, progress[1].Percent)
	require.Equal(t, "419.4kbits/s", progress[1].Bitrate)

	require.Equal(t, progress[1].Percent, p.Progress().Percent)
}

func TestParserProgressBlocks(t *testing.T) {
	var progress []Progress

	p := New(Config{
		Duration: 20,
		OnProgress: func(pr Progress) {
			progress = append(progress, pr)
		},
	})
	defer p.Stop()

	block := []string{
		"frame=120",
		"fps=30.00",
		"stream_0_0_q=28.0",
		"bitrate=1024.0kbits/s",
		"total_size=524288",
		"out_time_us=5000000",
		"out_time_ms=5000000",
		"out_time=00:00:05.000000",
		"dup_frames=0",
		"drop_frames=0",
		"speed=2.50x",
		"progress=continue",
	}

	for _, line := range block {
		p.Parse(line)
	}

	require.Equal(t, 1, len(progress))
	require.Equal(t, 25.0, progress[0].Percent)
	require.Equal(t, "00:00:05", progress[0].Time)
	require.Equal(t, "30.00", progress[0].FPS)
	require.Equal(t, "1024.0kbits/s", progress[0].Bitrate)
	require.Equal(t, "2.50x", progress[0].Speed)
	require.Equal(t, uint64(120), progress[0].Frame)

	// a block without out_time doesn't produce progress
	p.Parse("out_time=N/A")
	p.Parse("progress=continue")
	require.Equal(t, 1, len(progress))

	p.Parse("out_time=00:00:20.000000")
	p.Parse("progress=end")
	require.Equal(t, 2, len(progress))
	require.Equal(t, 100.0, progress[1].Percent)
}

func TestParserPaddedProgressBlock(t *testing.T) {
	var progress []Progress

	p := New(Config{
		Duration: 40,
		OnProgress: func(pr Progress) {
			progress = append(progress, pr)
		},
	})
	defer p.Stop()

	block := []string{
		"frame=  250",
		"fps= 50.0",
		"bitrate= 838.9kbits/s",
		"total_size=1048576",
		"out_time=00:00:10.000000",
		"speed=   1x",
		"progress=continue",
	}

	for _, line := range block {
		p.Parse(line)
	}

	require.Equal(t, 1, len(progress))
	require.Equal(t, 25.0, progress[0].Percent)
	require.Equal(t, "838.9kbits/s", progress[0].Bitrate)
	require.Equal(t, "1x", progress[0].Speed)
	require.Equal(t, "50.0", progress[0].FPS)
	require.Equal(t, uint64(250), progress[0].Frame)
}

func TestParserMixedSourcesKeepOrder(t *testing.T) {
	var times []string

	p := New(Config{
		Duration: 60,
		OnProgress: func(pr Progress) {
			times = append(times, pr.Time)
		},
	})
	defer p.Stop()

	p.Parse("out_time=00:00:10.000000")
	p.Parse("frame=1 fps=1 time=00:00:09.00 bitrate=1kbits/s speed=1x")
	p.Parse("progress=continue")

	require.Equal(t, []string{"00:00:09", "00:00:10"}, times)
}

func TestVersion(t *testing.T) {
	name, version, ok := Version("ffmpeg version 6.1.1-static https://johnvansickle.com/ffmpeg/  Copyright (c) 2000-2023 the FFmpeg developers\nbuilt with gcc 8 (Debian 8.3.0-6)")
	require.True(t, ok)
	require.Equal(t, "ffmpeg", name)
	require.Equal(t, "6.1.1-static", version)

	number, ok := VersionNumber(version)
	require.True(t, ok)
	require.Equal(t, "6.1.1", number)

	number, ok = VersionNumber("n7.0-ubuntu")
	require.True(t, ok)
	require.Equal(t, "7.0", number)

	_, ok = VersionNumber("N-113045-g1a2b3c")
	require.False(t, ok)

	_, _, ok = Version("bash: ffmpeg: command not found")
	require.False(t, ok)
}
