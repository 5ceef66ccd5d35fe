//go:build windows

package proc

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

// setSysProcAttr detaches the child into its own process group so a Ctrl+C
// aimed at the IDE never reaches a running assistant invocation.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// terminate kills the child outright; Windows has no graceful TERM for
// console children in another process group.
func terminate(cmd *exec.Cmd, _ time.Duration, _ <-chan struct{}) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
