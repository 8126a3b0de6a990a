// Package prockill terminates processes by pid. The capability is
// platform-dependent: supported platforms get a real implementation, the
// rest get a variant that reports the operation as unsupported. Termination
// is fire-and-forget; no confirmation of exit is attempted and the pid is
// not checked against any snapshot.
package prockill

import "github.com/procscope/agent/internal/logging"

var log = logging.L("prockill")

// Killer requests OS-level termination of a process.
type Killer interface {
	Terminate(pid uint32) error
}

// New returns the Killer for the platform the agent was built for.
func New() Killer {
	return newPlatformKiller()
}
