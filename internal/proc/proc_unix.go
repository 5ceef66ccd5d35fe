//go:build !windows

package proc

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"
)

func setSysProcAttr(cmd *exec.Cmd) {}

// terminate asks the child to exit with SIGTERM, escalating to SIGKILL after
// the grace period. exited closes when the child has been reaped.
func terminate(cmd *exec.Cmd, grace time.Duration, exited <-chan struct{}) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && errors.Is(err, os.ErrProcessDone) {
		return
	}
	select {
	case <-exited:
	case <-time.After(grace):
		_ = cmd.Process.Kill()
	}
}
