// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Named debug probes served as a JSON document, plus process probes
// for descriptor and thread counts.

package control

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/shirou/gopsutil/v3/process"
)

// DebugProbes holds registered probe functions. Probes may be registered
// and dumped from different goroutines.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// Names returns the registered probe names in sorted order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// ServeHTTP writes DumpState as JSON.
func (dp *DebugProbes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dp.DumpState()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// OpenFDs reports how many descriptors the current process holds.
func OpenFDs() (int, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	n, err := p.NumFDs()
	return int(n), err
}

// RegisterProcessProbes adds process-level probes. A failing probe
// reports its error text instead of a value.
func RegisterProcessProbes(dp *DebugProbes) {
	dp.RegisterProbe("process.open_fds", func() any {
		n, err := OpenFDs()
		if err != nil {
			return err.Error()
		}
		return n
	})
	dp.RegisterProbe("process.threads", func() any {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			return err.Error()
		}
		n, err := p.NumThreads()
		if err != nil {
			return err.Error()
		}
		return n
	})
	dp.RegisterProbe("runtime.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}
