package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/procscope/agent/internal/config"
	"github.com/procscope/agent/internal/proctree"
)

// printProcessTree builds one snapshot and renders it as an indented tree.
func printProcessTree() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = config.Default()
	}

	mon := newMonitor(cfg)
	snap := mon.Processes()

	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	fmt.Printf("%-8s %7s %10s  %s\n", "PID", "CPU%", "MEM", "NAME")

	roots := snap.Roots()
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	byPid := make(map[uint32]proctree.ProcessInfo, len(snap.Processes))
	for _, p := range snap.Processes {
		byPid[p.PID] = p
	}

	printed := make(map[uint32]bool, len(snap.Processes))
	for _, root := range roots {
		printSubtree(snap, byPid, root, 0, width, printed)
	}

	// Anything unreachable from a root (self-parenting artifacts) still gets
	// a line rather than silently vanishing.
	for _, p := range snap.Processes {
		if !printed[p.PID] {
			printSubtree(snap, byPid, p.PID, 0, width, printed)
		}
	}
}

func printSubtree(snap proctree.Snapshot, byPid map[uint32]proctree.ProcessInfo, pid uint32, depth, width int, printed map[uint32]bool) {
	if printed[pid] {
		return
	}
	printed[pid] = true

	p, ok := byPid[pid]
	if !ok {
		return
	}

	line := fmt.Sprintf("%-8d %7.1f %10s  %s%s",
		p.PID, p.CPUPercent, formatBytes(p.MemoryBytes), strings.Repeat("  ", depth), p.Name)
	if width > 0 && len(line) > width {
		line = line[:width]
	}
	fmt.Println(line)

	for _, child := range snap.Relationships[pid] {
		if child == pid {
			continue
		}
		printSubtree(snap, byPid, child, depth+1, width, printed)
	}
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1fG", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%dB", b)
	}
}
