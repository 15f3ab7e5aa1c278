//go:build unix

package tunnel

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// terminateGrace is how long a process group gets to exit after SIGTERM
// before it is killed outright.
const terminateGrace = 2 * time.Second

// setProcessGroup arranges for the child to lead its own process group so
// the whole tree can be signaled at once.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateProcessGroup sends SIGTERM to the child's process group, then
// SIGKILL after a grace period. Signaling an already-gone group is not an
// error.
func terminateProcessGroup(pid int) error {
	if err := unix.Kill(-pid, unix.SIGTERM); err != nil {
		if err == unix.ESRCH {
			return nil
		}
		return err
	}
	go func() {
		time.Sleep(terminateGrace)
		_ = unix.Kill(-pid, unix.SIGKILL)
	}()
	return nil
}
