package progress

import (
	"sync"
	"testing"
)

func TestPercentWeighting(t *testing.T) {
	cases := []struct {
		snap Snapshot
		want int
	}{
		{Snapshot{Step: NotStarted}, 0},
		{Snapshot{Step: LoadingConfig}, 1},
		{Snapshot{Step: BuildingRules}, 5},
		{Snapshot{Step: LoadingFiles, Loaded: 0, Total: 0}, 10},
		{Snapshot{Step: LoadingFiles, Loaded: 50, Total: 100}, 10 + 42},
		{Snapshot{Step: Done}, 100},
	}
	for _, c := range cases {
		if got := c.snap.Percent(); got != c.want {
			t.Errorf("Percent(%+v) = %d, want %d", c.snap, got, c.want)
		}
	}
}

func TestStateSnapshotIsConsistentUnderConcurrentWrites(t *testing.T) {
	var p State
	p.SetStep(LoadingFiles)
	p.SetTotal(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.IncrementLoaded()
		}()
	}
	wg.Wait()

	snap := p.Snapshot()
	if snap.Loaded != 100 {
		t.Fatalf("expected Loaded=100, got %d", snap.Loaded)
	}
	if snap.Step != LoadingFiles {
		t.Fatalf("expected step LoadingFiles, got %v", snap.Step)
	}
	if got := snap.Percent(); got != 95 {
		t.Fatalf("expected Percent()=95, got %d", got)
	}
}
