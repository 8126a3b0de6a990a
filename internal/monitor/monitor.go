// Package monitor owns the snapshot lifecycle: it serializes process-table
// refresh+build cycles, keeps the latest snapshot for cheap reads, and
// fronts the termination capability.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/procscope/agent/internal/gpu"
	"github.com/procscope/agent/internal/logging"
	"github.com/procscope/agent/internal/prockill"
	"github.com/procscope/agent/internal/procsource"
	"github.com/procscope/agent/internal/proctree"
)

var log = logging.L("monitor")

// gpuRefreshTimeout bounds the one external GPU tool invocation per build so
// a hung tool cannot stall snapshots indefinitely.
const gpuRefreshTimeout = 2 * time.Second

// Monitor assembles process snapshots on demand and optionally on a timer.
type Monitor struct {
	source procsource.Source
	gpu    gpu.Resolver
	killer prockill.Killer

	// buildMu serializes whole refresh+build cycles: the three builder
	// passes must observe one consistent enumeration, and concurrent cycles
	// against the same source would interleave refreshes. Callers queue.
	buildMu sync.Mutex

	latestMu sync.RWMutex
	latest   *proctree.Snapshot

	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Monitor. interval is the background poll period; zero or
// negative disables polling and snapshots are built on demand only.
func New(source procsource.Source, resolver gpu.Resolver, killer prockill.Killer, interval time.Duration) *Monitor {
	return &Monitor{
		source:   source,
		gpu:      resolver,
		killer:   killer,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Processes runs one full refresh+build cycle and returns the snapshot.
// It never fails: an unreadable process table yields an empty snapshot.
func (m *Monitor) Processes() proctree.Snapshot {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	records, err := m.source.Snapshot()
	if err != nil {
		log.Warn("process table refresh failed", "error", err)
		records = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gpuRefreshTimeout)
	m.gpu.Refresh(ctx)
	cancel()

	snap := proctree.BuildSnapshot(records, m.gpu)

	m.latestMu.Lock()
	m.latest = &snap
	m.latestMu.Unlock()

	log.Debug("snapshot built", "processes", len(snap.Processes))
	return snap
}

// Latest returns the most recent snapshot without triggering a build,
// falling back to a fresh build when none has completed yet.
func (m *Monitor) Latest() proctree.Snapshot {
	m.latestMu.RLock()
	snap := m.latest
	m.latestMu.RUnlock()

	if snap == nil {
		return m.Processes()
	}
	return *snap
}

// Kill requests termination of pid. Independent of any in-flight build; no
// ordering between the two is guaranteed, and the pid is not validated
// against the current snapshot.
func (m *Monitor) Kill(pid uint32) error {
	return m.killer.Terminate(pid)
}

// Start launches the background poll loop. No-op when polling is disabled.
func (m *Monitor) Start() {
	if m.interval <= 0 {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		log.Info("poll loop started", "interval", m.interval)
		for {
			select {
			case <-ticker.C:
				m.Processes()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop halts the poll loop and waits for any in-flight poll to finish.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
}
