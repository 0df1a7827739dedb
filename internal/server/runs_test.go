package server

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/iconfit/internal/locate"
)

func storedRunWithID(id string) *storedRun {
	return &storedRun{result: &locate.Result{RunID: id}, targetPath: id + ".png"}
}

func TestRunRegistry_GetAndEvict(t *testing.T) {
	r := newRunRegistry(2)

	r.put(storedRunWithID("a"))
	r.put(storedRunWithID("b"))
	if run, err := r.get("a"); err != nil || run.targetPath != "a.png" {
		t.Fatalf("get(a): %v, %v", run, err)
	}

	r.put(storedRunWithID("c"))
	if r.size() != 2 {
		t.Errorf("size: got %d, want 2", r.size())
	}
	if _, err := r.get("a"); err == nil || !strings.Contains(err.Error(), "unknown run id") {
		t.Errorf("oldest run should be evicted, got %v", err)
	}
	for _, id := range []string{"b", "c"} {
		if _, err := r.get(id); err != nil {
			t.Errorf("get(%s): %v", id, err)
		}
	}
}

func TestRunRegistry_ReplaceKeepsOrder(t *testing.T) {
	r := newRunRegistry(2)

	r.put(storedRunWithID("a"))
	r.put(storedRunWithID("b"))
	replacement := storedRunWithID("a")
	replacement.iconPath = "new"
	r.put(replacement)

	if r.size() != 2 {
		t.Fatalf("size: got %d, want 2", r.size())
	}
	run, err := r.get("a")
	if err != nil || run.iconPath != "new" {
		t.Errorf("get(a): %v, %v", run, err)
	}
}

func TestRunRegistry_Concurrent(t *testing.T) {
	r := newRunRegistry(maxStoredRuns)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("run-%d", i)
			r.put(storedRunWithID(id))
			_, _ = r.get(id)
		}(i)
	}
	wg.Wait()

	if r.size() != maxStoredRuns {
		t.Errorf("size: got %d, want %d", r.size(), maxStoredRuns)
	}
}
