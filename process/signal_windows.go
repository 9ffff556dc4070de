//go:build windows

package process

import (
	"os"
	"os/exec"
)

func setSysProcAttr(cmd *exec.Cmd) {}

// terminate kills ffmpeg. There are no signals on windows.
func terminate(proc *os.Process) error {
	return proc.Kill()
}

func kill(proc *os.Process) error {
	return proc.Kill()
}

// interrupted reports whether the process has been killed. A killed process
// exits with code 1.
func interrupted(state *os.ProcessState) bool {
	switch state.ExitCode() {
	case 1, 255, 130, 143, 137:
		return true
	}

	return false
}
