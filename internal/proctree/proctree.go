// Package proctree assembles a point-in-time process forest from a flat
// process-table scan. Scans of a live process table are inherently racy:
// parents may exit before their children are read, pids may be reused, and a
// row may even name itself as its own parent. The builder absorbs all of that
// structurally instead of failing.
package proctree

// ProcessRecord is one raw row from a process-table scan. Pids are unique
// within a single scan only; they may belong to an unrelated process in the
// next scan.
type ProcessRecord struct {
	PID            uint32
	Name           string
	CPUPercent     float64
	MemoryBytes    uint64
	DiskReadBytes  uint64
	DiskWriteBytes uint64
	// ParentPID is nil when the OS reports no parent for the process.
	ParentPID *uint32
}

// ProcessInfo is an enriched process entry within a Snapshot. It has no
// identity beyond its pid for the lifetime of the snapshot that owns it.
type ProcessInfo struct {
	PID            uint32  `json:"pid"`
	Name           string  `json:"name"`
	CPUPercent     float64 `json:"cpu_usage"`
	MemoryBytes    uint64  `json:"memory_usage"`
	DiskReadBytes  uint64  `json:"disk_read_bytes"`
	DiskWriteBytes uint64  `json:"disk_write_bytes"`
	GPUPercent     float64 `json:"gpu_usage"`
	ParentPID      *uint32 `json:"parent_pid"`
	HasChildren    bool    `json:"has_children"`
}

// Snapshot is a single consistent capture of all observed processes plus a
// denormalized parent-to-children index. The index always agrees with the
// HasChildren flags: a pid is a key with a non-empty list iff its ProcessInfo
// has HasChildren set. Snapshots are never mutated after construction.
type Snapshot struct {
	Processes     []ProcessInfo       `json:"processes"`
	Relationships map[uint32][]uint32 `json:"process_relationships"`
}

// GPUResolver reports GPU utilization for a process name. Implementations
// never fail; anything they cannot determine resolves to 0.
type GPUResolver interface {
	Usage(processName string) float64
}

// BuildSnapshot builds a Snapshot from one captured scan. It is total: any
// input, including an empty or inconsistent one, produces a snapshot.
//
// The records slice must be a single captured enumeration reused for every
// pass; re-querying the process table mid-build would tear the snapshot.
func BuildSnapshot(records []ProcessRecord, gpu GPUResolver) Snapshot {
	// Collapse duplicate pids up front so every later pass sees exactly one
	// row per pid. The last record wins, the first-seen position is kept.
	ordered := make([]ProcessRecord, 0, len(records))
	seen := make(map[uint32]int, len(records))
	for _, rec := range records {
		if i, dup := seen[rec.PID]; dup {
			ordered[i] = rec
			continue
		}
		seen[rec.PID] = len(ordered)
		ordered = append(ordered, rec)
	}

	// First pass: every observed pid gets an empty children list and an
	// unknown parent.
	relationships := make(map[uint32][]uint32, len(ordered))
	parents := make(map[uint32]*uint32, len(ordered))
	for _, rec := range ordered {
		relationships[rec.PID] = []uint32{}
		parents[rec.PID] = nil
	}

	// Second pass: link children to parents. A parent that was not observed
	// in this scan (already exited, or a kernel-level owner like pid 0) stays
	// on the record as a dangling reference but never enters the index, so
	// the child renders as a root. A self-parenting row simply ends up as its
	// own single child; only one level is linked, so no cycle can form here.
	for _, rec := range ordered {
		if rec.ParentPID == nil {
			continue
		}
		ppid := *rec.ParentPID
		parents[rec.PID] = &ppid
		if _, observed := relationships[ppid]; observed {
			relationships[ppid] = append(relationships[ppid], rec.PID)
		}
	}

	// Third pass: emit enriched entries. Children lists keep encounter
	// order; callers wanting a display order sort explicitly.
	processes := make([]ProcessInfo, 0, len(ordered))
	for _, rec := range ordered {
		var gpuPercent float64
		if gpu != nil {
			gpuPercent = gpu.Usage(rec.Name)
		}
		processes = append(processes, ProcessInfo{
			PID:            rec.PID,
			Name:           rec.Name,
			CPUPercent:     rec.CPUPercent,
			MemoryBytes:    rec.MemoryBytes,
			DiskReadBytes:  rec.DiskReadBytes,
			DiskWriteBytes: rec.DiskWriteBytes,
			GPUPercent:     gpuPercent,
			ParentPID:      parents[rec.PID],
			HasChildren:    len(relationships[rec.PID]) > 0,
		})
	}

	return Snapshot{
		Processes:     processes,
		Relationships: relationships,
	}
}

// Roots returns the pids of processes that have no observed parent in the
// snapshot, in process order. A dangling parent reference counts as no
// parent.
func (s Snapshot) Roots() []uint32 {
	roots := make([]uint32, 0, len(s.Processes))
	for _, p := range s.Processes {
		if p.ParentPID == nil {
			roots = append(roots, p.PID)
			continue
		}
		if _, observed := s.Relationships[*p.ParentPID]; !observed {
			roots = append(roots, p.PID)
		}
	}
	return roots
}
