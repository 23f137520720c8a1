//go:build !linux

package judge

import "syscall"

func runnerSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}
