package infra

import (
	"sync/atomic"
	"time"
)

// Metrics counts stream activity. All fields are atomics, so the reader
// goroutine records while any other goroutine takes snapshots.
type Metrics struct {
	// Counters
	framesRead       atomic.Uint64
	eventsDispatched atomic.Uint64
	framesSkipped    atomic.Uint64
	barsClosed       atomic.Uint64
	errorsTotal      atomic.Uint64

	// Handler latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
	lastEventUnixMs   atomic.Int64
}

// GlobalMetrics is shared by every client that is not given its own sink.
var GlobalMetrics = &Metrics{}

// RecordFrame records a frame read from the socket.
func (m *Metrics) RecordFrame() {
	m.framesRead.Add(1)
}

// RecordEvent records a dispatched event with handler latency.
func (m *Metrics) RecordEvent(latencyNs int64) {
	m.eventsDispatched.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
	m.lastEventUnixMs.Store(time.Now().UnixMilli())
}

// RecordSkipped records a frame that matched no known event shape.
func (m *Metrics) RecordSkipped() {
	m.framesSkipped.Add(1)
}

// RecordBarClosed records a final bar.
func (m *Metrics) RecordBarClosed() {
	m.barsClosed.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a copy of the counters taken at Timestamp.
type MetricsSnapshot struct {
	FramesRead        uint64
	EventsDispatched  uint64
	FramesSkipped     uint64
	BarsClosed        uint64
	ErrorsTotal       uint64
	AvgLatencyNs      int64
	ActiveConnections int32
	LastEventUnixMs   int64
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		FramesRead:        m.framesRead.Load(),
		EventsDispatched:  m.eventsDispatched.Load(),
		FramesSkipped:     m.framesSkipped.Load(),
		BarsClosed:        m.barsClosed.Load(),
		ErrorsTotal:       m.errorsTotal.Load(),
		AvgLatencyNs:      avgLatency,
		ActiveConnections: m.activeConnections.Load(),
		LastEventUnixMs:   m.lastEventUnixMs.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset zeroes every counter and gauge.
func (m *Metrics) Reset() {
	m.framesRead.Store(0)
	m.eventsDispatched.Store(0)
	m.framesSkipped.Store(0)
	m.barsClosed.Store(0)
	m.errorsTotal.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeConnections.Store(0)
	m.lastEventUnixMs.Store(0)
}
