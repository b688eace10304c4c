// Package progress exposes the import pipeline's process-wide progress
// state to readers outside the pipeline (the CLI's progress bar). The
// import command sets the early steps and the pipeline the rest; any
// number of goroutines may read a consistent Snapshot concurrently.
package progress

import (
	"sync"
	"sync/atomic"
)

// Step names one phase of an import run.
type Step int

// Recognized steps, in the order a run passes through them.
const (
	NotStarted Step = iota
	LoadingConfig
	BuildingRules
	LoadingFiles
	Done
)

func (s Step) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case LoadingConfig:
		return "loading config"
	case BuildingRules:
		return "building rules"
	case LoadingFiles:
		return "loading files"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent read of the progress state at one instant.
type Snapshot struct {
	Step   Step
	Loaded int64
	Total  int64
}

// Percent reports this snapshot's completion percentage using the same
// weighting the CLI progress bar renders: NotStarted=0, LoadingConfig=1,
// BuildingRules=5, LoadingFiles=10+85*(loaded/total) (or 10 if total is
// zero), Done=100.
func (s Snapshot) Percent() int {
	switch s.Step {
	case NotStarted:
		return 0
	case LoadingConfig:
		return 1
	case BuildingRules:
		return 5
	case LoadingFiles:
		if s.Total == 0 {
			return 10
		}
		return 10 + int(85*float64(s.Loaded)/float64(s.Total))
	case Done:
		return 100
	default:
		return 0
	}
}

// State is the mutex-and-atomics-guarded progress surface. The zero value
// is ready to use, starting at NotStarted.
type State struct {
	mu     sync.Mutex
	step   Step
	loaded atomic.Int64
	total  atomic.Int64
}

// SetStep transitions to step. Called by the import command and the pipeline.
func (p *State) SetStep(step Step) {
	p.mu.Lock()
	p.step = step
	p.mu.Unlock()
}

// SetTotal records the total number of files this run will process.
func (p *State) SetTotal(total int64) {
	p.total.Store(total)
}

// IncrementLoaded advances the loaded-file counter by one.
func (p *State) IncrementLoaded() {
	p.loaded.Add(1)
}

// Snapshot returns a consistent read of the current step and counters.
func (p *State) Snapshot() Snapshot {
	p.mu.Lock()
	step := p.step
	p.mu.Unlock()

	return Snapshot{
		Step:   step,
		Loaded: p.loaded.Load(),
		Total:  p.total.Load(),
	}
}

// Percent is a convenience wrapper around Snapshot().Percent().
func (p *State) Percent() int {
	return p.Snapshot().Percent()
}
