package parse

import (
	"strings"
	"sync"
	"time"

	"github.com/prep/average"
)

// Config is the config for a Parser
type Config struct {
	// Duration of the input in seconds, 0 if unknown.
	Duration float64

	// OnProgress is called for every progress snapshot in the order the lines
	// have been parsed. It must not block.
	OnProgress func(Progress)

	// Window for averaging the transcode speed for the ETA. Defaults to 10s.
	Window time.Duration
}

// Parser consumes the output of a running ffmpeg. It understands the stats
// lines on stderr as well as the key=value blocks written with
// `-progress pipe:1`. It is safe to feed it from several goroutines.
type Parser struct {
	duration   float64
	onProgress func(Progress)
	window     time.Duration

	block map[string]string

	last       Progress
	maxSeconds float64
	speed      *average.SlidingWindow

	lock sync.Mutex
}

// New returns a new Parser.
func New(config Config) *Parser {
	p := &Parser{
		duration:   config.Duration,
		onProgress: config.OnProgress,
		window:     config.Window,
		block:      map[string]string{},
	}

	if p.window <= 0 {
		p.window = 10 * time.Second
	}

	p.speed = average.MustNew(p.window, time.Second)

	return p
}

// Parse parses a single line of output.
func (p *Parser) Parse(line string) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if matches := reKeyValue.FindStringSubmatch(line); matches != nil {
		p.block[matches[1]] = matches[2]

		if matches[1] == "progress" {
			p.flush()
		}

		return
	}

	if progress, ok := ProgressLine(line, p.duration); ok {
		p.emit(progress)
	}
}

// flush turns a complete key=value block into a progress line and parses it
// with the same patterns as the stats lines.
func (p *Parser) flush() {
	block := p.block
	p.block = map[string]string{}

	outTime, ok := block["out_time"]
	if !ok {
		return
	}

	line := "frame=" + block["frame"] + " fps=" + block["fps"] + " time=" + outTime + " bitrate=" + block["bitrate"] + " speed=" + block["speed"]

	if progress, ok := ProgressLine(line, p.duration); ok {
		p.emit(progress)
	}
}

func (p *Parser) emit(progress Progress) {
	if delta := progress.Seconds - p.maxSeconds; delta > 0 {
		p.speed.Add(int64(delta * 1000))
		p.maxSeconds = progress.Seconds
	}

	if p.duration > 0 {
		// media milliseconds per second of wall clock
		if rate := p.speed.Average(p.window) / 1000; rate > 0 {
			remaining := p.duration - progress.Seconds
			if remaining < 0 {
				remaining = 0
			}

			progress.ETA = remaining / rate
		}
	}

	p.last = progress

	if p.onProgress != nil {
		p.onProgress(progress)
	}
}

// Progress returns the most recent progress.
func (p *Parser) Progress() Progress {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.last
}

// Stop releases the resources of the parser.
func (p *Parser) Stop() {
	p.speed.Stop()
}
