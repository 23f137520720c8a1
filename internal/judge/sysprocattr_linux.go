//go:build linux

package judge

import "syscall"

// runnerSysProcAttr asks the kernel to SIGKILL the runner-init shim (and
// thereby the user binary it has exec'd into) if the-sentinel itself
// dies, so a supervisor crash can never orphan a sandboxed child.
func runnerSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}
