//go:build windows

package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// installFile copies source next to target and renames it.
func installFile(source, target string) error {
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, ".ffmpeg-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("copy %s: %w", source, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), target)
}
