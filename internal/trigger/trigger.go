// Package trigger evaluates angle watches against per-frame landmark sets
// and counts threshold excursions, the way a workout tracker counts reps
// from a joint angle.
package trigger

import (
	"sync"

	"github.com/iHakawaTi/CV-Modules/internal/landmark"
)

// Watch names an angle to track and the thresholds that bound one rep.
type Watch struct {
	ID    string
	Name  string
	Query landmark.Query

	// Low and High are the angle thresholds in degrees. A rep is one
	// full High -> Low -> High excursion.
	Low  float64
	High float64

	// Interior reduces the directional angle to the interior angle
	// before comparing against the thresholds.
	Interior bool
}

// Reading is the per-frame result for one watch. It carries the watch's
// Query so consumers can resolve the measured points without a separate
// snapshot of the watch list, which may have changed since.
type Reading struct {
	WatchID string
	Name    string
	Query   landmark.Query
	// Angle is the raw directional angle in [0, 360).
	Angle float64
	// Value is the angle actually compared against the thresholds
	// (interior-reduced when the watch asks for it).
	Value float64
	// Reps is the total rep count so far.
	Reps int
	// Counted is true when this frame completed a rep.
	Counted bool
	// Err reports why no angle was available this frame (missing
	// landmark or degenerate query). The angle fields are zero then;
	// Query and Reps are still populated.
	Err error
}

// rep phases
const (
	phaseStart = iota
	phaseHigh
	phaseLow
)

type watchState struct {
	watch Watch
	phase int
	reps  int
}

// Watcher tracks a set of angle watches across frames.
type Watcher struct {
	watches []*watchState
	mu      sync.Mutex
	onRep   func(id, name string, count int)
}

// NewWatcher creates an empty Watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// OnRep registers a callback fired whenever a watch completes a rep. The
// callback runs outside the watcher lock, after the Observe call that
// counted the rep.
func (w *Watcher) OnRep(fn func(id, name string, count int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRep = fn
}

// Add registers a watch.
func (w *Watcher) Add(watch Watch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watches = append(w.watches, &watchState{watch: watch})
}

// Remove unregisters a watch by its ID.
func (w *Watcher) Remove(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, ws := range w.watches {
		if ws.watch.ID == id {
			w.watches = append(w.watches[:i], w.watches[i+1:]...)
			return
		}
	}
}

// Watches returns the registered watches.
func (w *Watcher) Watches() []Watch {
	w.mu.Lock()
	defer w.mu.Unlock()

	watches := make([]Watch, len(w.watches))
	for i, ws := range w.watches {
		watches[i] = ws.watch
	}
	return watches
}

// Observe evaluates every watch against the frame's landmark set and
// advances the rep state machines. One Reading is returned per watch; a
// watch whose angle cannot be computed this frame carries the error and
// leaves its state untouched.
func (w *Watcher) Observe(set landmark.Set) []Reading {
	w.mu.Lock()

	readings := make([]Reading, 0, len(w.watches))
	for _, ws := range w.watches {
		readings = append(readings, w.observe(ws, set))
	}
	onRep := w.onRep
	w.mu.Unlock()

	if onRep != nil {
		for _, r := range readings {
			if r.Counted {
				onRep(r.WatchID, r.Name, r.Reps)
			}
		}
	}

	return readings
}

func (w *Watcher) observe(ws *watchState, set landmark.Set) Reading {
	r := Reading{WatchID: ws.watch.ID, Name: ws.watch.Name, Query: ws.watch.Query}

	angle, err := landmark.AngleQuery(set, ws.watch.Query)
	if err != nil {
		r.Err = err
		r.Reps = ws.reps
		return r
	}

	r.Angle = angle
	r.Value = angle
	if ws.watch.Interior {
		r.Value = landmark.Interior(angle)
	}

	switch {
	case r.Value >= ws.watch.High:
		if ws.phase == phaseLow {
			ws.reps++
			r.Counted = true
		}
		ws.phase = phaseHigh
	case r.Value <= ws.watch.Low:
		// Only a drop from the high phase arms the rep; starting low
		// does not count the first rise.
		if ws.phase == phaseHigh {
			ws.phase = phaseLow
		}
	}

	r.Reps = ws.reps
	return r
}

// Reset clears all rep counts and phases.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ws := range w.watches {
		ws.phase = phaseStart
		ws.reps = 0
	}
}
