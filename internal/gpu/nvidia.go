package gpu

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

const nvidiaSmiCommand = "nvidia-smi"

// pmon -c 1 samples one cycle of per-process utilization; -s u selects the
// utilization columns (sm/mem/enc/dec).
var nvidiaSmiArgs = []string{"pmon", "-c", "1", "-s", "u"}

// nvidiaResolver samples per-process GPU utilization by shelling out to
// nvidia-smi once per refresh and answering name lookups from the parsed
// table. One bounded tool invocation per snapshot build, not one per
// process.
type nvidiaResolver struct {
	mu    sync.RWMutex
	usage map[string]float64

	// run is swapped in tests to avoid invoking the real tool.
	run func(ctx context.Context) ([]byte, error)
}

func newNvidiaResolver() *nvidiaResolver {
	r := &nvidiaResolver{usage: map[string]float64{}}
	r.run = func(ctx context.Context) ([]byte, error) {
		return exec.CommandContext(ctx, nvidiaSmiCommand, nvidiaSmiArgs...).Output()
	}
	return r
}

// Refresh replaces the utilization table with a fresh sample. Any exec or
// parse failure leaves an empty table, so subsequent lookups report 0.0.
func (r *nvidiaResolver) Refresh(ctx context.Context) {
	table := map[string]float64{}

	out, err := r.run(ctx)
	if err != nil {
		log.Debug("nvidia-smi sample failed", "error", err)
	} else {
		table = parsePmonOutput(bytes.NewReader(out))
	}

	r.mu.Lock()
	r.usage = table
	r.mu.Unlock()
}

func (r *nvidiaResolver) Usage(processName string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage[processName]
}

// parsePmonOutput reads `nvidia-smi pmon -s u` output:
//
//	# gpu         pid  type    sm   mem   enc   dec   command
//	# Idx           #   C/G     %     %     %     %   name
//	    0       1979     G     2     1     0     0   Xorg
//
// Unparseable lines are dropped. When several processes share a name, the
// highest sm% wins.
func parsePmonOutput(r io.Reader) map[string]float64 {
	usage := map[string]float64{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}

		sm, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			// "-" for processes the tool cannot account.
			continue
		}

		name := fields[7]
		if sm > usage[name] {
			usage[name] = sm
		}
	}

	return usage
}
