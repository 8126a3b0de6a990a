// Package dispatch routes incoming commands to their handlers and runs them
// on the worker pool.
package dispatch

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/procscope/agent/internal/collectors"
	"github.com/procscope/agent/internal/logging"
	"github.com/procscope/agent/internal/monitor"
	"github.com/procscope/agent/internal/remote/tools"
	"github.com/procscope/agent/internal/websocket"
	"github.com/procscope/agent/internal/workerpool"
)

var log = logging.L("dispatch")

// Dispatcher maps command types to handlers. Commands execute on the worker
// pool so a flood of requests cannot spawn unbounded goroutines.
type Dispatcher struct {
	mon     *monitor.Monitor
	metrics *collectors.MetricsCollector
	pool    *workerpool.Pool
}

func New(mon *monitor.Monitor, metrics *collectors.MetricsCollector, pool *workerpool.Pool) *Dispatcher {
	return &Dispatcher{
		mon:     mon,
		metrics: metrics,
		pool:    pool,
	}
}

// Handle executes one command and returns its result frame. Never panics:
// handler panics are recovered into failed results.
func (d *Dispatcher) Handle(cmd websocket.Command) websocket.CommandResult {
	resultChan := make(chan tools.CommandResult, 1)

	submitted := d.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("command handler panicked",
					logging.KeyCommandType, cmd.Type, "panic", r, "stack", string(debug.Stack()))
				resultChan <- tools.NewErrorResult(fmt.Errorf("internal error handling %s", cmd.Type), 0)
			}
		}()
		resultChan <- d.run(cmd)
	})
	if !submitted {
		return failureFrame(cmd, "agent busy, command rejected")
	}

	result := <-resultChan
	return resultFrame(cmd, result)
}

func (d *Dispatcher) run(cmd websocket.Command) tools.CommandResult {
	switch cmd.Type {
	case tools.CmdGetProcesses:
		return tools.GetProcesses(d.mon)
	case tools.CmdKillProcess:
		return tools.KillProcess(d.mon, cmd.Payload)
	case tools.CmdGetMetrics:
		return tools.GetMetrics(d.metrics)
	default:
		return tools.NewErrorResult(fmt.Errorf("unknown command type: %s", cmd.Type), 0)
	}
}

func resultFrame(cmd websocket.Command, result tools.CommandResult) websocket.CommandResult {
	frame := websocket.CommandResult{
		CommandID: cmd.ID,
		Status:    result.Status,
		Error:     result.Error,
	}
	if result.Stdout != "" {
		frame.Result = json.RawMessage(result.Stdout)
	}
	return frame
}

func failureFrame(cmd websocket.Command, reason string) websocket.CommandResult {
	return websocket.CommandResult{
		CommandID: cmd.ID,
		Status:    "failed",
		Error:     reason,
	}
}
