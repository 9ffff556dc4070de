package process

import (
	"sync"
	"unicode/utf8"
)

// scanLines splits the data on \r, \n, or \r\n line endings. ffmpeg
// terminates its stats lines with \r only.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// Skip leading line endings.
	start := 0
	for width := 0; start < len(data); start += width {
		var r rune
		r, width = utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
	}

	for width, i := 0, start; i < len(data); i += width {
		var r rune
		r, width = utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + width, data[start:i], nil
		}
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}

	// Request more data.
	return start, nil, nil
}

// tail keeps the last characters written to it.
type tail struct {
	size int
	buf  []rune
	lock sync.Mutex
}

func newTail(size int) *tail {
	return &tail{
		size: size,
		buf:  make([]rune, 0, size),
	}
}

// WriteLine appends the line and a line ending.
func (t *tail) WriteLine(line string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.buf = append(t.buf, []rune(line)...)
	t.buf = append(t.buf, '\n')

	if over := len(t.buf) - t.size; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
}

func (t *tail) String() string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return string(t.buf)
}
