// Package estimate accumulates distance and duration totals while a
// job is serialized. Feeds are in mm/min, matching the G-code F word;
// distances are millimeters.
package estimate

import (
	"sync"
)

// Estimator accumulates per-job totals. It is safe for concurrent use.
type Estimator struct {
	mu sync.RWMutex

	maxFeed    float64
	travelFeed float64

	cutMM         float64
	travelMM      float64
	cutSeconds    float64
	travelSeconds float64
	dwellSeconds  float64
	cutMoves      int
	travelMoves   int
}

// New creates an Estimator. maxFeed is the device maximum feed in
// mm/min. travelFeed is the rapid feed and falls back to maxFeed when
// not positive.
func New(maxFeed, travelFeed float64) *Estimator {
	if travelFeed <= 0 {
		travelFeed = maxFeed
	}
	return &Estimator{
		maxFeed:    maxFeed,
		travelFeed: travelFeed,
	}
}

// Reset clears all accumulated totals.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cutMM = 0
	e.travelMM = 0
	e.cutSeconds = 0
	e.travelSeconds = 0
	e.dwellSeconds = 0
	e.cutMoves = 0
	e.travelMoves = 0
}

// AddTravel accumulates one beam-off move of the given length.
func (e *Estimator) AddTravel(mm float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.travelMM += mm
	e.travelMoves++
	if e.travelFeed > 0 {
		e.travelSeconds += mm / e.travelFeed * 60
	}
}

// AddCut accumulates one beam-on move of the given length at the given
// speed percentage. The move distance always counts toward the cut
// total; a non-positive feed adds no time.
func (e *Estimator) AddCut(mm, speedPercent float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cutMM += mm
	e.cutMoves++
	feed := e.maxFeed * speedPercent / 100
	if feed > 0 {
		e.cutSeconds += mm / feed * 60
	}
}

// Dwell adds a fixed pause. Negative delays are ignored.
func (e *Estimator) Dwell(seconds float64) {
	if seconds < 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dwellSeconds += seconds
}

// Total returns the accumulated duration in seconds.
func (e *Estimator) Total() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cutSeconds + e.travelSeconds + e.dwellSeconds
}

// Status is a snapshot of accumulated totals.
type Status struct {
	CutMM         float64
	TravelMM      float64
	CutSeconds    float64
	TravelSeconds float64
	DwellSeconds  float64
	TotalSeconds  float64
	CutMoves      int
	TravelMoves   int
}

// GetStatus returns a snapshot of the accumulated totals.
func (e *Estimator) GetStatus() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Status{
		CutMM:         e.cutMM,
		TravelMM:      e.travelMM,
		CutSeconds:    e.cutSeconds,
		TravelSeconds: e.travelSeconds,
		DwellSeconds:  e.dwellSeconds,
		TotalSeconds:  e.cutSeconds + e.travelSeconds + e.dwellSeconds,
		CutMoves:      e.cutMoves,
		TravelMoves:   e.travelMoves,
	}
}
