// Package log forwards the internal messages of echo to a logger.
package log

import (
	"encoding/json"
	"io"
	"strings"
)

type logwrapper struct {
	writer io.Writer
}

type logentry struct {
	Message string `json:"message"`
}

// NewWrapper returns a writer for echo's logger. Echo writes JSON objects,
// only their message is forwarded, line by line.
func NewWrapper(writer io.Writer) io.Writer {
	return &logwrapper{
		writer: writer,
	}
}

func (b *logwrapper) Write(p []byte) (int, error) {
	message := string(p)

	entry := logentry{}
	if err := json.Unmarshal(p, &entry); err == nil && len(entry.Message) != 0 {
		message = entry.Message
	}

	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if _, err := b.writer.Write([]byte(line)); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}
