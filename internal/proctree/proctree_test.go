package proctree

import (
	"reflect"
	"testing"
)

type fixedGPU map[string]float64

func (g fixedGPU) Usage(name string) float64 { return g[name] }

func pid(v uint32) *uint32 { return &v }

func findProcess(t *testing.T, snap Snapshot, id uint32) ProcessInfo {
	t.Helper()
	for _, p := range snap.Processes {
		if p.PID == id {
			return p
		}
	}
	t.Fatalf("pid %d not in snapshot", id)
	return ProcessInfo{}
}

func TestBuildSnapshotEmptyInput(t *testing.T) {
	snap := BuildSnapshot(nil, nil)

	if len(snap.Processes) != 0 {
		t.Fatalf("processes = %v, want empty", snap.Processes)
	}
	if snap.Processes == nil {
		t.Fatal("processes slice should be non-nil so it serializes as []")
	}
	if snap.Relationships == nil || len(snap.Relationships) != 0 {
		t.Fatalf("relationships = %v, want empty map", snap.Relationships)
	}
}

func TestBuildSnapshotLinksParentAndChildren(t *testing.T) {
	records := []ProcessRecord{
		{PID: 1, Name: "init"},
		{PID: 10, Name: "shell", ParentPID: pid(1)},
		{PID: 11, Name: "editor", ParentPID: pid(10)},
		{PID: 12, Name: "compiler", ParentPID: pid(10)},
	}

	snap := BuildSnapshot(records, nil)

	if got := snap.Relationships[1]; !reflect.DeepEqual(got, []uint32{10}) {
		t.Fatalf("children of 1 = %v, want [10]", got)
	}
	if got := snap.Relationships[10]; !reflect.DeepEqual(got, []uint32{11, 12}) {
		t.Fatalf("children of 10 = %v, want [11 12]", got)
	}

	if p := findProcess(t, snap, 1); !p.HasChildren || p.ParentPID != nil {
		t.Fatalf("init: HasChildren=%v ParentPID=%v", p.HasChildren, p.ParentPID)
	}
	if p := findProcess(t, snap, 11); p.HasChildren {
		t.Fatal("leaf process should not report children")
	}
	if p := findProcess(t, snap, 11); p.ParentPID == nil || *p.ParentPID != 10 {
		t.Fatalf("editor parent = %v, want 10", p.ParentPID)
	}
}

func TestBuildSnapshotDanglingParent(t *testing.T) {
	records := []ProcessRecord{
		{PID: 5, Name: "orphan", ParentPID: pid(99)},
	}

	snap := BuildSnapshot(records, nil)

	p := findProcess(t, snap, 5)
	if p.ParentPID == nil || *p.ParentPID != 99 {
		t.Fatalf("dangling parent field = %v, want 99", p.ParentPID)
	}
	if p.HasChildren {
		t.Fatal("orphan should not report children")
	}
	if got, ok := snap.Relationships[5]; !ok || len(got) != 0 {
		t.Fatalf("relationships[5] = %v (present=%v), want empty list", got, ok)
	}
	if _, ok := snap.Relationships[99]; ok {
		t.Fatal("unobserved parent 99 must not appear as a key")
	}
	for key, children := range snap.Relationships {
		for _, c := range children {
			if c == 99 {
				t.Fatalf("pid 99 appears in children of %d", key)
			}
		}
	}
	if got := snap.Roots(); !reflect.DeepEqual(got, []uint32{5}) {
		t.Fatalf("roots = %v, want [5]", got)
	}
}

// A process naming itself as its own parent is a rare kernel/pid-reuse
// artifact. Only one level of the relationship is linked, so it shows up as
// its own single child. That is accepted behavior, not a defect.
func TestBuildSnapshotSelfParent(t *testing.T) {
	records := []ProcessRecord{
		{PID: 7, Name: "ouroboros", ParentPID: pid(7)},
	}

	snap := BuildSnapshot(records, nil)

	if got := snap.Relationships[7]; !reflect.DeepEqual(got, []uint32{7}) {
		t.Fatalf("relationships[7] = %v, want [7]", got)
	}
	if p := findProcess(t, snap, 7); !p.HasChildren {
		t.Fatal("self-parenting process should report children")
	}
}

func TestBuildSnapshotDuplicatePidLastWriteWins(t *testing.T) {
	records := []ProcessRecord{
		{PID: 3, Name: "a"},
		{PID: 3, Name: "b"},
	}

	snap := BuildSnapshot(records, nil)

	if len(snap.Processes) != 1 {
		t.Fatalf("got %d entries for duplicate pid, want 1", len(snap.Processes))
	}
	if snap.Processes[0].Name != "b" {
		t.Fatalf("name = %q, want last-seen %q", snap.Processes[0].Name, "b")
	}
	if len(snap.Relationships) != 1 {
		t.Fatalf("relationships = %v, want single key 3", snap.Relationships)
	}
}

func TestBuildSnapshotDuplicateChildNotDoubleLinked(t *testing.T) {
	records := []ProcessRecord{
		{PID: 1, Name: "init"},
		{PID: 4, Name: "worker", ParentPID: pid(1)},
		{PID: 4, Name: "worker-respawned", ParentPID: pid(1)},
	}

	snap := BuildSnapshot(records, nil)

	if got := snap.Relationships[1]; !reflect.DeepEqual(got, []uint32{4}) {
		t.Fatalf("children of 1 = %v, want [4]", got)
	}
	if p := findProcess(t, snap, 4); p.Name != "worker-respawned" {
		t.Fatalf("name = %q, want last-seen record", p.Name)
	}
}

func TestBuildSnapshotIndexAgreesWithHasChildren(t *testing.T) {
	records := []ProcessRecord{
		{PID: 1, Name: "init"},
		{PID: 2, Name: "kthreadd", ParentPID: pid(0)},
		{PID: 30, Name: "daemon", ParentPID: pid(1)},
		{PID: 31, Name: "worker", ParentPID: pid(30)},
		{PID: 40, Name: "orphan", ParentPID: pid(999)},
	}

	snap := BuildSnapshot(records, nil)

	if len(snap.Relationships) != len(snap.Processes) {
		t.Fatalf("index has %d keys for %d processes", len(snap.Relationships), len(snap.Processes))
	}
	for _, p := range snap.Processes {
		children, ok := snap.Relationships[p.PID]
		if !ok {
			t.Fatalf("pid %d missing from relationship index", p.PID)
		}
		if p.HasChildren != (len(children) > 0) {
			t.Fatalf("pid %d: HasChildren=%v but index lists %d children",
				p.PID, p.HasChildren, len(children))
		}
	}
}

func TestBuildSnapshotDeterministic(t *testing.T) {
	records := []ProcessRecord{
		{PID: 1, Name: "init"},
		{PID: 20, Name: "b", ParentPID: pid(1)},
		{PID: 10, Name: "a", ParentPID: pid(1)},
		{PID: 30, Name: "c", ParentPID: pid(10)},
	}

	first := BuildSnapshot(records, fixedGPU{"a": 12.5})
	second := BuildSnapshot(records, fixedGPU{"a": 12.5})

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ for identical input:\n%v\n%v", first, second)
	}
	// Children keep encounter order, not numeric order.
	if got := first.Relationships[1]; !reflect.DeepEqual(got, []uint32{20, 10}) {
		t.Fatalf("children of 1 = %v, want encounter order [20 10]", got)
	}
}

func TestBuildSnapshotAppliesGPUUsage(t *testing.T) {
	records := []ProcessRecord{
		{PID: 100, Name: "renderer"},
		{PID: 101, Name: "idle"},
	}

	snap := BuildSnapshot(records, fixedGPU{"renderer": 42.0})

	if p := findProcess(t, snap, 100); p.GPUPercent != 42.0 {
		t.Fatalf("renderer gpu = %v, want 42.0", p.GPUPercent)
	}
	if p := findProcess(t, snap, 101); p.GPUPercent != 0 {
		t.Fatalf("idle gpu = %v, want 0", p.GPUPercent)
	}
}
