package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

const version = `ffmpeg version 6.1.1-mediacore Copyright (c) 2000-2023 the FFmpeg developers
built with gcc 12.2.0 (Debian 12.2.0-14)
configuration: --enable-gpl --enable-version3 --enable-static --enable-libx264 --enable-libx265 --enable-libvpx --enable-libopus
libavutil      58. 29.100 / 58. 29.100
libavcodec     60. 31.102 / 60. 31.102
libavformat    60. 16.100 / 60. 16.100`

const encoders = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ..S... = Slice-level multithreading
 ...X.. = Codec is experimental
 ....B. = Supports draw_horiz_band
 .....D = Supports direct rendering method 1
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D libx265              libx265 H.265 / HEVC (codec hevc)
 V....D libvpx-vp9           libvpx VP9 (codec vp9)
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libopus              libopus Opus (codec opus)
 S..... srt                  SubRip subtitle`

const prelude = `Input #0, matroska,webm, from '%s':
  Metadata:
    ENCODER         : Lavf60.16.100
  Duration: 00:10:00.00, start: 0.000000, bitrate: 8000 kb/s
  Stream #0:0(eng): Video: hevc (Main), yuv420p(tv, bt709), 1920x1080 [SAR 1:1 DAR 16:9], 23.98 fps, 23.98 tbr, 1k tbn (default)
  Stream #0:1(eng): Audio: aac (LC), 48000 Hz, stereo, fltp (default)`

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Hyper fast Audio and Video encoder")
		os.Exit(1)
	}

	switch args[len(args)-1] {
	case "-version":
		fmt.Println(version)
		os.Exit(0)
	case "-encoders":
		fmt.Println(encoders)
		os.Exit(0)
	}

	input := ""
	for i, arg := range args {
		if arg == "-i" && i+1 < len(args) {
			input = args[i+1]
		}
	}

	if len(input) == 0 {
		os.Exit(1)
	}

	name := filepath.Base(input)
	output := args[len(args)-1]

	if output == input {
		probe(input, name)
	}

	transcode(name, output)
}

// probe mimics `ffmpeg -i file` which always exits with 1 if no output is given.
func probe(input, name string) {
	switch {
	case strings.Contains(name, "noinfo"):
		fmt.Fprintf(os.Stderr, "%s: Invalid data found when processing input\n", input)
		os.Exit(1)
	case strings.Contains(name, "crash"):
		os.Exit(3)
	case strings.Contains(name, "success"):
		fmt.Fprintf(os.Stderr, prelude+"\n", input)
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, prelude+"\n", input)
	fmt.Fprintln(os.Stderr, "At least one output file must be specified")
	os.Exit(1)
}

func transcode(name, output string) {
	fmt.Fprintln(os.Stderr, "Press [q] to stop, [?] for help")

	quit := make(chan os.Signal, 1)

	switch {
	case strings.Contains(name, "fail"):
		fmt.Fprintln(os.Stderr, "[hevc @ 0x55d5c] Invalid NAL unit size (1234 > 567).")
		fmt.Fprintln(os.Stderr, "Error while decoding stream #0:0: Invalid data found when processing input")
		fmt.Fprintln(os.Stderr, "Conversion failed!")
		os.Exit(1)
	case strings.Contains(name, "stubborn"):
		signal.Ignore(syscall.SIGTERM, os.Interrupt)
		progress(1)
		for {
			time.Sleep(time.Second)
		}
	case strings.Contains(name, "hang"):
		signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
		progress(1)
		<-quit
		fmt.Fprintln(os.Stderr, "Exiting normally, received signal 15.")
		os.Exit(255)
	case strings.Contains(name, "longline"):
		progress(1)
		fmt.Fprintln(os.Stderr, strings.Repeat("x", 2*1024*1024))
		write(output)
		os.Exit(0)
	case strings.Contains(name, "graceful"):
		signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
		progress(1)
		<-quit
		write(output)
		os.Exit(0)
	}

	for i := 1; i <= 5; i++ {
		progress(i)
		time.Sleep(20 * time.Millisecond)
	}

	write(output)

	fmt.Println("progress=end")
	os.Exit(0)
}

// progress writes a key=value block to stdout and a stats line to stderr,
// each step is 2 seconds of media. The values are padded like ffmpeg does.
func progress(step int) {
	seconds := 2 * step

	fmt.Printf("frame=%d\nfps=25.00\nbitrate=%6.1fkbits/s\nout_time_us=%d\nout_time=00:00:%02d.000000\nspeed=%4.3gx\nprogress=continue\n", seconds*25, 838.9, seconds*1000000, seconds, 2.0)
	fmt.Fprintf(os.Stderr, "frame=%5d fps= 25 q=28.0 size=    %4dkB time=00:00:%02d.00 bitrate=%6.1fkbits/s speed=%4.3gx    \r", seconds*25, seconds*128, seconds, 838.9, 2.0)
}

func write(output string) {
	if err := os.WriteFile(output, []byte("mediacore"), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", output, err)
		os.Exit(1)
	}
}
