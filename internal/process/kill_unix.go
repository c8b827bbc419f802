//go:build !windows

// Package process terminates browser process trees left behind by go-rod.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, which
// takes Chrome's renderer and GPU helpers down with it.
func KillProcessGroup(pid int) {
	// Best effort: the launcher kills the main process either way.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
