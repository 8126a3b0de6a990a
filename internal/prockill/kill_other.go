//go:build !windows && !linux && !darwin

package prockill

import (
	"fmt"
	"runtime"
)

type unsupportedKiller struct{}

func newPlatformKiller() Killer {
	return &unsupportedKiller{}
}

func (k *unsupportedKiller) Terminate(pid uint32) error {
	return fmt.Errorf("process termination is not supported on %s", runtime.GOOS)
}
