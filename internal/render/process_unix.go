//go:build !windows

package render

import "syscall"

// killProcessGroup sends SIGKILL to the browser's process group.
func killProcessGroup(pid int) {
	// Errors ignored; launcher.Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
