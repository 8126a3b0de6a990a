package prockill

import (
	"strings"
	"testing"
)

func TestNewReturnsKiller(t *testing.T) {
	if New() == nil {
		t.Fatal("every platform must provide a Killer, even an unsupported one")
	}
}

// Terminating a pid that cannot exist must come back as an error value, not
// a panic, on every platform variant.
func TestTerminateNonexistentPidReturnsError(t *testing.T) {
	// Above any default pid_max; no live process can hold it.
	const bogus = uint32(4294967)

	err := New().Terminate(bogus)
	if err == nil {
		t.Fatalf("terminating pid %d should fail", bogus)
	}
	if strings.TrimSpace(err.Error()) == "" {
		t.Fatal("failure reason must be descriptive")
	}
}
