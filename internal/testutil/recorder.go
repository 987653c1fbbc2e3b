package testutil

import (
	"sync"

	"github.com/roach88/stochrammar/internal/engine"
)

// Finished is a recorded RunFinished callback.
type Finished struct {
	Info  engine.RunInfo
	Stats engine.Stats
	Err   error
}

// Recorder is an engine.Observer that keeps every callback in order.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Recorder struct {
	mu       sync.Mutex
	started  []engine.RunInfo
	acts     []engine.ActEvent
	finished []Finished
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RunStarted(info engine.RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, info)
}

func (r *Recorder) TokenActed(ev engine.ActEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acts = append(r.acts, ev)
}

func (r *Recorder) RunFinished(info engine.RunInfo, stats engine.Stats, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, Finished{Info: info, Stats: stats, Err: err})
}

// Started returns a copy of the recorded run starts.
func (r *Recorder) Started() []engine.RunInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.RunInfo(nil), r.started...)
}

// Acts returns a copy of the recorded act events.
func (r *Recorder) Acts() []engine.ActEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.ActEvent(nil), r.acts...)
}

// Finished returns a copy of the recorded run completions.
func (r *Recorder) Finished() []Finished {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Finished(nil), r.finished...)
}

// Reset clears every recording. Used for test reuse.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started, r.acts, r.finished = nil, nil, nil
}
