// Package parse holds every pattern that is matched against the text output
// of ffmpeg. A change of the output format of ffmpeg should only require
// changes in this package.
package parse

import (
	"regexp"
	"strconv"
)

var (
	// Stream #0:0(eng): Video: h264 (High), yuv420p(progressive), 1920x1080 [SAR 1:1 DAR 16:9], 25 fps
	reVideoStream = regexp.MustCompile(`Stream #[0-9]+:[0-9]+[^:]*: Video: ([^\s,]+).*?, ([0-9]{2,5})x([0-9]{2,5})`)

	// Stream #0:1(eng): Audio: ac3, 48000 Hz, 5.1(side), fltp, 448 kb/s
	reAudioStream = regexp.MustCompile(`Stream #[0-9]+:[0-9]+[^:]*: Audio: ([^\s,]+)`)

	// Duration: 00:10:00.00, start: 0.000000, bitrate: 8000 kb/s
	reDuration = regexp.MustCompile(`Duration: ([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]{2})`)
	reBitrate  = regexp.MustCompile(`bitrate: ([0-9]+) kb/s`)

	// frame=  250 fps= 50 q=28.0 size=    1024kB time=00:00:10.00 bitrate= 838.9kbits/s speed=2.01x
	// out_time=00:00:10.000000
	reTime            = regexp.MustCompile(`time=\s*([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]{2})`)
	reFPS             = regexp.MustCompile(`fps=\s*([0-9\.]+)`)
	reProgressBitrate = regexp.MustCompile(`bitrate=\s*([0-9\.]+\s*kbits/s|N/A)`)
	reSpeed           = regexp.MustCompile(`speed=\s*([0-9\.]+x|N/A)`)
	reFrame           = regexp.MustCompile(`frame=\s*([0-9]+)`)

	// -progress pipe:1 writes one key=value pair per line, some values are
	// padded: bitrate= 838.9kbits/s, speed=   1x
	reKeyValue = regexp.MustCompile(`^([a-z0-9_]+)=\s*(\S*)$`)

	// ffmpeg version 6.1.1-static https://johnvansickle.com/ffmpeg/  Copyright (c) 2000-2023 the FFmpeg developers
	reVersion       = regexp.MustCompile(`^(\S+) version (\S+)`)
	reVersionNumber = regexp.MustCompile(`^n?([0-9]+\.[0-9]+(\.[0-9]+)?)`)
)

// clock converts the four captures hours, minutes, seconds and centiseconds
// into seconds.
func clock(matches []string) float64 {
	h, _ := strconv.ParseFloat(matches[0], 64)
	m, _ := strconv.ParseFloat(matches[1], 64)
	s, _ := strconv.ParseFloat(matches[2], 64)
	cs, _ := strconv.ParseFloat(matches[3], 64)

	return h*3600 + m*60 + s + cs/100
}
