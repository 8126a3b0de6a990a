// Package procsource reads the OS process table into raw records for the
// tree builder.
package procsource

import (
	"github.com/shirou/gopsutil/v3/process"

	"github.com/procscope/agent/internal/logging"
	"github.com/procscope/agent/internal/proctree"
)

var log = logging.L("procsource")

// Source supplies one flat process enumeration per call. The returned slice
// is a single consistent capture; callers reuse it for every pass of a build
// and never re-query mid-build.
type Source interface {
	Snapshot() ([]proctree.ProcessRecord, error)
}

// SystemSource reads the live process table through gopsutil.
type SystemSource struct{}

func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

// Snapshot enumerates the process table once and reads all per-process
// fields from that enumeration. Processes that exit mid-scan are skipped;
// individual metric reads that fail leave their field at zero rather than
// dropping the process.
func (s *SystemSource) Snapshot() ([]proctree.ProcessRecord, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	records := make([]proctree.ProcessRecord, 0, len(procs))
	skipped := 0
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			// Usually a process that exited between enumeration and read.
			skipped++
			continue
		}

		rec := proctree.ProcessRecord{
			PID:  uint32(p.Pid),
			Name: name,
		}

		if cpuPercent, err := p.CPUPercent(); err == nil {
			rec.CPUPercent = cpuPercent
		}
		if memInfo, err := p.MemoryInfo(); err == nil && memInfo != nil {
			rec.MemoryBytes = memInfo.RSS
		}
		// Cumulative since process start on Linux and Windows; consumers
		// derive rates themselves.
		if ioc, err := p.IOCounters(); err == nil && ioc != nil {
			rec.DiskReadBytes = ioc.ReadBytes
			rec.DiskWriteBytes = ioc.WriteBytes
		}
		if ppid, err := p.Ppid(); err == nil && ppid > 0 {
			parent := uint32(ppid)
			rec.ParentPID = &parent
		}

		records = append(records, rec)
	}

	if skipped > 0 {
		log.Debug("skipped unreadable processes", "skipped", skipped, "total", len(procs))
	}

	return records, nil
}
