// Package gpu resolves per-process GPU utilization. Resolution is a
// best-effort enrichment: every failure path degrades to 0.0 and never
// blocks or fails snapshot construction.
package gpu

import (
	"context"
	"os/exec"

	"github.com/procscope/agent/internal/logging"
)

var log = logging.L("gpu")

// Resolver modes selectable in config.
const (
	ModeAuto   = "auto"
	ModeNvidia = "nvidia"
	ModeOff    = "off"
)

// Resolver reports GPU utilization by process name. Refresh re-reads the
// accounting source once per snapshot build; Usage answers from the last
// refresh. Implementations never return errors, only zero values.
type Resolver interface {
	Refresh(ctx context.Context)
	Usage(processName string) float64
}

// New selects a resolver for the given mode. ModeAuto picks the NVIDIA
// resolver when nvidia-smi is on PATH and falls back to the zero-value
// resolver otherwise.
func New(mode string) Resolver {
	switch mode {
	case ModeNvidia:
		return newNvidiaResolver()
	case ModeOff:
		return NewNoopResolver()
	default:
		if _, err := exec.LookPath(nvidiaSmiCommand); err == nil {
			log.Info("gpu resolver selected", "mode", ModeNvidia)
			return newNvidiaResolver()
		}
		log.Info("gpu resolver selected", "mode", ModeOff, "reason", "nvidia-smi not found")
		return NewNoopResolver()
	}
}

// NoopResolver always reports zero utilization. It stands in when no GPU
// accounting tool is available or the resolver is disabled.
type NoopResolver struct{}

func NewNoopResolver() *NoopResolver {
	return &NoopResolver{}
}

func (r *NoopResolver) Refresh(ctx context.Context) {}

func (r *NoopResolver) Usage(processName string) float64 { return 0.0 }
