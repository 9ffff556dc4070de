package install

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/subplayer/mediacore/glob"
)

// extractCommand returns the command of the operating system that unpacks
// the archive into dir.
func extractCommand(ctx context.Context, goos, format, archive, dir string) *exec.Cmd {
	if format == ArchiveTarXZ {
		return exec.CommandContext(ctx, "tar", "-xJf", archive, "-C", dir)
	}

	switch goos {
	case "windows":
		script := fmt.Sprintf("Expand-Archive -LiteralPath '%s' -DestinationPath '%s' -Force", quote(archive), quote(dir))
		return exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	case "darwin":
		return exec.CommandContext(ctx, "ditto", "-x", "-k", archive, dir)
	}

	return exec.CommandContext(ctx, "unzip", "-o", "-q", archive, "-d", dir)
}

// quote escapes a string for a single quoted powershell string.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (m *Manager) extract(ctx context.Context, archive, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &Error{Kind: KindInstall, Op: "extract", Err: err}
	}

	stderr := bytes.Buffer{}

	cmd := extractCommand(ctx, m.goos, m.platform.Archive, archive, dir)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &Error{Kind: KindExtract, Op: "extract", Err: fmt.Errorf("%w: %s: %s", ErrExtract, err, strings.TrimSpace(stderr.String()))}
	}

	return nil
}

// find returns the path of the executable in the extracted archive.
func (m *Manager) find(dir string) (string, error) {
	path, err := glob.FindFile(dir, m.platform.Executable)
	if err != nil {
		return "", &Error{Kind: KindInstall, Op: "install", Err: err}
	}

	if len(path) == 0 {
		return "", &Error{Kind: KindInstall, Op: "install", Err: fmt.Errorf("%s: %w", m.platform.Executable, ErrExecutableNotFound)}
	}

	return path, nil
}
