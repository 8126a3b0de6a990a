package tools

import (
	"fmt"
	"time"

	"github.com/procscope/agent/internal/collectors"
	"github.com/procscope/agent/internal/monitor"
)

// GetProcesses builds and returns the full process snapshot: the enriched
// process list plus the parent-to-children index.
func GetProcesses(m *monitor.Monitor) CommandResult {
	startTime := time.Now()

	snap := m.Processes()

	return NewSuccessResult(snap, time.Since(startTime).Milliseconds())
}

// KillProcess terminates a process by pid. The failure reason from the
// platform capability is surfaced verbatim; nothing is retried.
func KillProcess(m *monitor.Monitor, payload map[string]any) CommandResult {
	startTime := time.Now()

	pid := GetPayloadInt(payload, "pid", 0)
	if pid <= 0 {
		return NewErrorResult(fmt.Errorf("pid is required"), time.Since(startTime).Milliseconds())
	}

	if err := m.Kill(uint32(pid)); err != nil {
		return NewErrorResult(err, time.Since(startTime).Milliseconds())
	}

	result := map[string]any{
		"pid":        pid,
		"terminated": true,
	}

	return NewSuccessResult(result, time.Since(startTime).Milliseconds())
}

// GetMetrics returns the host-level metrics summary.
func GetMetrics(c *collectors.MetricsCollector) CommandResult {
	startTime := time.Now()

	metrics, err := c.Collect()
	if err != nil {
		return NewErrorResult(fmt.Errorf("failed to collect metrics: %w", err), time.Since(startTime).Milliseconds())
	}

	return NewSuccessResult(metrics, time.Since(startTime).Milliseconds())
}
