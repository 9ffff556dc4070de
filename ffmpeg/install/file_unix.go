//go:build !windows

package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// installFile copies source to target atomically and makes it executable.
func installFile(source, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	pendingFile, err := renameio.NewPendingFile(target, renameio.WithStaticPermissions(0755))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer pendingFile.Cleanup()

	if _, err := io.Copy(pendingFile, src); err != nil {
		return fmt.Errorf("copy %s: %w", source, err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	return os.Chmod(target, 0755)
}
