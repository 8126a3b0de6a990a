// Package tools implements the command surface a UI or server invokes
// against the agent.
package tools

import (
	"encoding/json"
	"fmt"
)

// Command types understood by the agent.
const (
	CmdGetProcesses = "get_processes"
	CmdKillProcess  = "kill_process"
	CmdGetMetrics   = "get_metrics"
)

// CommandResult is the envelope every command returns. Failures are values
// here, never panics: Error carries the reason verbatim for the caller.
type CommandResult struct {
	Status     string `json:"status"` // completed, failed
	ExitCode   int    `json:"exitCode,omitempty"`
	Stdout     string `json:"stdout,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

// NewSuccessResult creates a successful command result carrying data as JSON.
func NewSuccessResult(data interface{}, durationMs int64) CommandResult {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return CommandResult{
			Status:     "failed",
			ExitCode:   1,
			Error:      fmt.Sprintf("failed to marshal result: %v", err),
			DurationMs: durationMs,
		}
	}
	return CommandResult{
		Status:     "completed",
		ExitCode:   0,
		Stdout:     string(jsonData),
		DurationMs: durationMs,
	}
}

// NewErrorResult creates a failed command result.
func NewErrorResult(err error, durationMs int64) CommandResult {
	return CommandResult{
		Status:     "failed",
		ExitCode:   1,
		Error:      err.Error(),
		DurationMs: durationMs,
	}
}

// Payload helpers. Payloads arrive as decoded JSON, so numbers are float64.

func GetPayloadString(payload map[string]any, key string, defaultVal string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

func GetPayloadInt(payload map[string]any, key string, defaultVal int) int {
	if v, ok := payload[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return defaultVal
}

func GetPayloadBool(payload map[string]any, key string, defaultVal bool) bool {
	if v, ok := payload[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
