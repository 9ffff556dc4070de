// Package testhelper builds the helper programs in its subdirectories that
// stand in for external binaries during tests.
package testhelper

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// BuildBinary compiles the helper program with the given name found below
// pathprefix and returns the path to the executable.
func BuildBinary(name, pathprefix string) (string, error) {
	dir := filepath.Join(pathprefix, name)
	aout := filepath.Join(dir, name)

	if runtime.GOOS == "windows" {
		aout += ".exe"
	}

	out, err := exec.Command("go", "build", "-o", aout, dir).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("build command: %w: %s", err, out)
	}

	return aout, nil
}
