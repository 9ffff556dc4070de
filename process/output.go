package process

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/subplayer/mediacore/decision"

	"github.com/lestrrat-go/strftime"
)

const timestampFormat = "%Y-%m-%d_%H-%M-%S"

// OutputPath returns the default path of the transcoded file for input:
// <dir>/<name>_<operation>_<timestamp>.mp4. If dir is empty, the directory
// of the input is used.
func OutputPath(dir, input string, strategy decision.Strategy, t time.Time) string {
	if len(dir) == 0 {
		dir = filepath.Dir(input)
	}

	name := filepath.Base(input)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if len(name) == 0 || name == "." {
		name = "output"
	}

	ts, err := strftime.Format(timestampFormat, t)
	if err != nil {
		ts = t.Format("2006-01-02_15-04-05")
	}

	name = sanitize(name) + "_" + strategy.Operation() + "_" + ts + ".mp4"

	return filepath.Join(dir, name)
}

// sanitize replaces all characters that are not allowed in filenames on
// any of the supported platforms.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}

		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}

		return r
	}, name)
}
