package pyrt

import "sync/atomic"

// Metrics is a set of atomic scheduler and evaluation-cache observability
// counters: plain atomic.Uint64 fields rather than a metrics-library
// client, since this runtime's observability surface is counters-only,
// not a Prometheus/OpenTelemetry exporter.
type Metrics struct {
	TasksSpawned   atomic.Uint64
	TasksCompleted atomic.Uint64
	StealsOK       atomic.Uint64
	StealsFailed   atomic.Uint64
	ParkEvents     atomic.Uint64
	CompileEvents  atomic.Uint64

	completionLatencyNs atomic.Uint64
	parkLatencyNs       atomic.Uint64
}

// NewMetrics constructs a zeroed Metrics. The zero value is also usable
// directly; this exists for symmetry with other constructors.
func NewMetrics() *Metrics { return &Metrics{} }

// ObserveSpawn implements interfaces.Observer.
func (m *Metrics) ObserveSpawn() { m.TasksSpawned.Add(1) }

// ObserveComplete implements interfaces.Observer.
func (m *Metrics) ObserveComplete(latencyNs uint64) {
	m.TasksCompleted.Add(1)
	m.completionLatencyNs.Store(latencyNs)
}

// ObserveSteal implements interfaces.Observer.
func (m *Metrics) ObserveSteal(success bool) {
	if success {
		m.StealsOK.Add(1)
	} else {
		m.StealsFailed.Add(1)
	}
}

// ObserveParkLatency implements interfaces.Observer.
func (m *Metrics) ObserveParkLatency(latencyNs uint64) {
	m.ParkEvents.Add(1)
	m.parkLatencyNs.Store(latencyNs)
}

// ObserveCompile implements interfaces.Observer.
func (m *Metrics) ObserveCompile(latencyNs uint64) {
	m.CompileEvents.Add(1)
}

// Snapshot is a point-in-time copy of every counter, safe to log or
// serialize without holding a reference into the live Metrics.
type Snapshot struct {
	TasksSpawned, TasksCompleted, StealsOK, StealsFailed, ParkEvents, CompileEvents uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TasksSpawned:   m.TasksSpawned.Load(),
		TasksCompleted: m.TasksCompleted.Load(),
		StealsOK:       m.StealsOK.Load(),
		StealsFailed:   m.StealsFailed.Load(),
		ParkEvents:     m.ParkEvents.Load(),
		CompileEvents:  m.CompileEvents.Load(),
	}
}
