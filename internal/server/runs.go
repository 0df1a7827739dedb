package server

import (
	"fmt"
	"sync"

	"github.com/ironsheep/iconfit/internal/locate"
)

// maxStoredRuns bounds the number of locate runs kept for inspection.
const maxStoredRuns = 32

// storedRun is a finished icon_locate call kept for the inspection tools.
type storedRun struct {
	result     *locate.Result
	iconPath   string
	targetPath string
}

// runRegistry keeps the most recent locate runs by id. Once full, the oldest
// run is dropped.
type runRegistry struct {
	mu    sync.Mutex
	limit int
	order []string
	runs  map[string]*storedRun
}

func newRunRegistry(limit int) *runRegistry {
	return &runRegistry{
		limit: limit,
		runs:  make(map[string]*storedRun),
	}
}

func (r *runRegistry) put(run *storedRun) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := run.result.RunID
	if _, ok := r.runs[id]; !ok {
		r.order = append(r.order, id)
	}
	r.runs[id] = run
	for len(r.order) > r.limit {
		delete(r.runs, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *runRegistry) get(id string) (*storedRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("unknown run id %q (runs are kept for the last %d locate calls)", id, r.limit)
	}
	return run, nil
}

func (r *runRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}
