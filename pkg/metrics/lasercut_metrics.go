// Driver-specific metrics definitions
//
// Defines all metrics for the LibLaserCut Go driver including:
// - Emitted line and token statistics
// - Job serialization outcomes and timing
// - System metrics
//
// Copyright (C) 2026 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	goruntime "runtime"
	"sync"
	"time"
)

// DriverMetrics holds all driver-specific metrics
type DriverMetrics struct {
	// Emission metrics
	LinesEmitted     *Counter
	TokensSuppressed *Counter
	CommandsTotal    *Counter
	BytesWritten     *Counter

	// Job metrics
	JobsSerialized   *Counter
	SerializeSeconds *Histogram
	CutDistance      *Gauge
	TravelDistance   *Gauge
	EstimatedSeconds *Gauge

	// System metrics
	HostUptime    *Counter
	GoGoroutines  *Gauge
	GoMemoryHeap  *Gauge
	GoMemoryAlloc *Gauge
	GoGCCycles    *Counter

	// Error metrics
	ErrorsTotal *Counter

	// Internal
	startTime time.Time
	registry  *Registry
}

// NewDriverMetrics creates and registers all driver metrics
func NewDriverMetrics() *DriverMetrics {
	dm := &DriverMetrics{
		startTime: time.Now(),
		registry:  NewRegistry(),
	}

	// Emission metrics
	dm.LinesEmitted = NewCounter("lasercut_lines_emitted_total",
		"Total G-code lines emitted by kind")
	dm.TokensSuppressed = NewCounter("lasercut_tokens_suppressed_total",
		"Total tokens suppressed as unchanged or within the dead zone")
	dm.CommandsTotal = NewCounter("lasercut_commands_total",
		"Total job commands processed by type")
	dm.BytesWritten = NewCounter("lasercut_bytes_written_total",
		"Total bytes written to the output transport")

	// Job metrics
	dm.JobsSerialized = NewCounter("lasercut_jobs_serialized_total",
		"Total jobs serialized by status")
	dm.SerializeSeconds = NewHistogram("lasercut_serialize_seconds",
		"Wall-clock time to serialize a job",
		ExponentialBuckets(0.0005, 2, 12))
	dm.CutDistance = NewGauge("lasercut_cut_distance_mm",
		"Cut distance of the last serialized job")
	dm.TravelDistance = NewGauge("lasercut_travel_distance_mm",
		"Travel distance of the last serialized job")
	dm.EstimatedSeconds = NewGauge("lasercut_estimated_seconds",
		"Estimated machine time of the last serialized job")

	// System metrics
	dm.HostUptime = NewCounter("lasercut_host_uptime_seconds_total",
		"Total host uptime in seconds")
	dm.GoGoroutines = NewGauge("lasercut_go_goroutines",
		"Number of active goroutines")
	dm.GoMemoryHeap = NewGauge("lasercut_go_memory_heap_bytes",
		"Go heap memory in use")
	dm.GoMemoryAlloc = NewGauge("lasercut_go_memory_alloc_bytes",
		"Go total memory allocated")
	dm.GoGCCycles = NewCounter("lasercut_go_gc_cycles_total",
		"Total Go garbage collection cycles")

	// Error metrics
	dm.ErrorsTotal = NewCounter("lasercut_errors_total",
		"Total errors by code")

	// Register all metrics
	dm.registerAll()

	return dm
}

// registerAll registers all metrics with the internal registry
func (dm *DriverMetrics) registerAll() {
	metrics := []Metric{
		dm.LinesEmitted, dm.TokensSuppressed, dm.CommandsTotal,
		dm.BytesWritten,
		dm.JobsSerialized, dm.SerializeSeconds,
		dm.CutDistance, dm.TravelDistance, dm.EstimatedSeconds,
		dm.HostUptime, dm.GoGoroutines, dm.GoMemoryHeap, dm.GoMemoryAlloc,
		dm.GoGCCycles,
		dm.ErrorsTotal,
	}
	for _, m := range metrics {
		dm.registry.MustRegister(m)
	}
}

// UpdateSystemMetrics updates Go runtime metrics
func (dm *DriverMetrics) UpdateSystemMetrics() {
	var m goruntime.MemStats
	goruntime.ReadMemStats(&m)

	dm.GoGoroutines.Set(nil, float64(goruntime.NumGoroutine()))
	dm.GoMemoryHeap.Set(nil, float64(m.HeapAlloc))
	dm.GoMemoryAlloc.Set(nil, float64(m.Alloc))
	dm.GoGCCycles.Add(nil, uint64(m.NumGC)-dm.GoGCCycles.Get(nil))
	dm.HostUptime.Add(nil, uint64(time.Since(dm.startTime).Seconds()))
}

// RecordLine records an emitted line of the given kind
// (rapid, cut, prologue, epilogue).
func (dm *DriverMetrics) RecordLine(kind string) {
	dm.LinesEmitted.Inc(Labels{"kind": kind})
}

// RecordSuppressedToken records a token elided from an emitted line
// (x, y, s, f).
func (dm *DriverMetrics) RecordSuppressedToken(token string) {
	dm.TokensSuppressed.Inc(Labels{"token": token})
}

// RecordCommand records a processed job command (rapid, cut).
func (dm *DriverMetrics) RecordCommand(cmdType string) {
	dm.CommandsTotal.Inc(Labels{"type": cmdType})
}

// AddBytes records bytes written to the transport.
func (dm *DriverMetrics) AddBytes(n uint64) {
	if n > 0 {
		dm.BytesWritten.Add(nil, n)
	}
}

// RecordJob records a job serialization outcome
// (completed, error).
func (dm *DriverMetrics) RecordJob(status string, duration time.Duration) {
	dm.JobsSerialized.Inc(Labels{"status": status})
	dm.SerializeSeconds.Observe(nil, duration.Seconds())
}

// SetJobStats publishes the distance and estimate figures of the last
// serialized job.
func (dm *DriverMetrics) SetJobStats(cutMM, travelMM, estimatedSeconds float64) {
	dm.CutDistance.Set(nil, cutMM)
	dm.TravelDistance.Set(nil, travelMM)
	dm.EstimatedSeconds.Set(nil, estimatedSeconds)
}

// RecordError records an error by code
func (dm *DriverMetrics) RecordError(code string) {
	dm.ErrorsTotal.Inc(Labels{"code": code})
}

// Gather returns all metrics in Prometheus text format
func (dm *DriverMetrics) Gather() string {
	dm.UpdateSystemMetrics()
	return dm.registry.Gather()
}

// Registry returns the internal registry
func (dm *DriverMetrics) Registry() *Registry {
	return dm.registry
}

// Global metrics instance
var globalMetrics *DriverMetrics
var globalMetricsOnce sync.Once

// GlobalMetrics returns the global driver metrics instance
func GlobalMetrics() *DriverMetrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = NewDriverMetrics()
	})
	return globalMetrics
}
