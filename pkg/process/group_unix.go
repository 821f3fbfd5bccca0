//go:build unix

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// The child leads its own process group, so anything it forks dies with it
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(p *os.Process) error {
	err := syscall.Kill(-p.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		// Group already gone, make sure the leader is too
		return p.Kill()
	}
	return err
}
