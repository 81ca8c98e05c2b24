//go:build windows

package render

import (
	"os/exec"
	"strconv"
)

// killProcessGroup kills the browser and its children with taskkill.
func killProcessGroup(pid int) {
	// Errors ignored; launcher.Kill runs afterwards.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
