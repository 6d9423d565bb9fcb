//go:build !windows

// Package process terminates browser process trees left by the PDF renderer.
package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the launcher's own Kill runs afterwards as a fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
