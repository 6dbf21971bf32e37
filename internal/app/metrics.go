package app

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/bstviz/internal/event/topic"
)

// Metrics tracks script runs, engine events and config reloads.
type Metrics struct {
	mu sync.RWMutex

	// Script timing
	scriptCount    atomic.Uint64
	scriptFailures atomic.Uint64
	scriptTotalNs  atomic.Int64
	scriptMaxNs    atomic.Int64
	lastScriptNs   atomic.Int64

	// Event counts
	eventCount  atomic.Uint64
	topicCounts map[topic.Topic]uint64

	// Config reloads
	reloads        atomic.Uint64
	reloadFailures atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		topicCounts: make(map[topic.Topic]uint64),
		startTime:   time.Now(),
	}
}

// RecordScript records one script run.
func (m *Metrics) RecordScript(duration time.Duration, err error) {
	ns := duration.Nanoseconds()

	m.scriptCount.Add(1)
	m.scriptTotalNs.Add(ns)
	m.lastScriptNs.Store(ns)
	if err != nil {
		m.scriptFailures.Add(1)
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.scriptMaxNs.Load()
		if ns <= old {
			break
		}
		if m.scriptMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent counts one delivered event.
func (m *Metrics) RecordEvent(t topic.Topic) {
	m.eventCount.Add(1)

	m.mu.Lock()
	m.topicCounts[t]++
	m.mu.Unlock()
}

// RecordReload counts one config reload attempt.
func (m *Metrics) RecordReload(err error) {
	m.reloads.Add(1)
	if err != nil {
		m.reloadFailures.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	scriptCount := m.scriptCount.Load()

	var avgScriptNs int64
	if scriptCount > 0 {
		avgScriptNs = m.scriptTotalNs.Load() / int64(scriptCount)
	}

	m.mu.RLock()
	topics := maps.Clone(m.topicCounts)
	start := m.startTime
	m.mu.RUnlock()

	return MetricsSnapshot{
		Uptime:         time.Since(start),
		ScriptRuns:     scriptCount,
		ScriptFailures: m.scriptFailures.Load(),
		AvgScriptNs:    avgScriptNs,
		MaxScriptNs:    m.scriptMaxNs.Load(),
		LastScriptNs:   m.lastScriptNs.Load(),
		EventCount:     m.eventCount.Load(),
		TopicCounts:    topics,
		Reloads:        m.reloads.Load(),
		ReloadFailures: m.reloadFailures.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.scriptCount.Store(0)
	m.scriptFailures.Store(0)
	m.scriptTotalNs.Store(0)
	m.scriptMaxNs.Store(0)
	m.lastScriptNs.Store(0)
	m.eventCount.Store(0)
	m.reloads.Store(0)
	m.reloadFailures.Store(0)

	m.mu.Lock()
	clear(m.topicCounts)
	m.startTime = time.Now()
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	ScriptRuns     uint64
	ScriptFailures uint64
	AvgScriptNs    int64
	MaxScriptNs    int64
	LastScriptNs   int64
	EventCount     uint64
	TopicCounts    map[topic.Topic]uint64
	Reloads        uint64
	ReloadFailures uint64
}

// AvgScriptTime returns the mean script duration.
func (s MetricsSnapshot) AvgScriptTime() time.Duration {
	return time.Duration(s.AvgScriptNs)
}

// FailureRate returns the percentage of failed script runs.
func (s MetricsSnapshot) FailureRate() float64 {
	if s.ScriptRuns == 0 {
		return 0
	}
	return float64(s.ScriptFailures) / float64(s.ScriptRuns) * 100
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
