//go:build !windows

package process

import (
	"os"
	"os/exec"
	"syscall"
)

func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// terminate asks ffmpeg to stop. ffmpeg finishes the output file before
// it exits.
func terminate(proc *os.Process) error {
	return proc.Signal(syscall.SIGTERM)
}

// kill kills the whole process group of ffmpeg.
func kill(proc *os.Process) error {
	if err := syscall.Kill(-proc.Pid, syscall.SIGKILL); err != nil {
		return proc.Kill()
	}

	return nil
}

// interrupted reports whether the process has been terminated by a signal
// or exited with one of the codes ffmpeg uses after a signal.
func interrupted(state *os.ProcessState) bool {
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return true
	}

	switch state.ExitCode() {
	case 255, 130, 143, 137:
		return true
	}

	return false
}
