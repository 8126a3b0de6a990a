//go:build windows

package prockill

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// taskkillKiller forces termination through the taskkill tool, the same way
// an administrator would from a shell.
type taskkillKiller struct{}

func newPlatformKiller() Killer {
	return &taskkillKiller{}
}

func (k *taskkillKiller) Terminate(pid uint32) error {
	out, err := exec.Command("taskkill", "/F", "/PID", strconv.FormatUint(uint64(pid), 10)).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("taskkill failed for pid %d: %s", pid, msg)
		}
		return fmt.Errorf("failed to run taskkill for pid %d: %w", pid, err)
	}

	log.Info("process terminated", "pid", pid)
	return nil
}
