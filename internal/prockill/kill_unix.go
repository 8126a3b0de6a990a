//go:build linux || darwin

package prockill

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// signalKiller sends SIGKILL directly. Forced, matching taskkill /F on
// Windows; graceful-terminate escalation is the caller's business.
type signalKiller struct{}

func newPlatformKiller() Killer {
	return &signalKiller{}
}

func (k *signalKiller) Terminate(pid uint32) error {
	err := unix.Kill(int(pid), unix.SIGKILL)
	if err == nil {
		log.Info("process terminated", "pid", pid)
		return nil
	}

	switch {
	case errors.Is(err, unix.ESRCH):
		return fmt.Errorf("no such process: %d", pid)
	case errors.Is(err, unix.EPERM):
		return fmt.Errorf("permission denied terminating pid %d", pid)
	default:
		return fmt.Errorf("failed to terminate pid %d: %w", pid, err)
	}
}
