package fhirclient

import (
	"sync/atomic"
	"time"
)

// Metrics tracks client activity using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Operation counts
	operationsTotal atomic.Uint64
	operationsOK    atomic.Uint64

	// Transport activity
	retriesTotal    atomic.Uint64
	transportFaults atomic.Uint64

	// Timing (stored as nanoseconds)
	operationTimeTotal atomic.Uint64
	operationTimeMin   atomic.Uint64
	operationTimeMax   atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.operationTimeMin.Store(^uint64(0))
	return m
}

// RecordOperation records a completed, classified operation.
func (m *Metrics) RecordOperation(duration time.Duration, ok bool) {
	m.operationsTotal.Add(1)
	if ok {
		m.operationsOK.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.operationTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.operationTimeMin.Load()
		if ns >= old {
			break
		}
		if m.operationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.operationTimeMax.Load()
		if ns <= old {
			break
		}
		if m.operationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRetry records one retried attempt inside the transport.
func (m *Metrics) RecordRetry() {
	m.retriesTotal.Add(1)
}

// RecordTransportFault records a call that produced no classified result.
func (m *Metrics) RecordTransportFault() {
	m.transportFaults.Add(1)
}

// OperationsTotal returns the number of classified operations.
func (m *Metrics) OperationsTotal() uint64 {
	return m.operationsTotal.Load()
}

// OperationsOK returns the number of operations classified successful.
func (m *Metrics) OperationsOK() uint64 {
	return m.operationsOK.Load()
}

// SuccessRate returns the fraction of operations classified successful
// (0.0 to 1.0).
func (m *Metrics) SuccessRate() float64 {
	total := m.operationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.operationsOK.Load()) / float64(total)
}

// RetriesTotal returns the number of retried attempts.
func (m *Metrics) RetriesTotal() uint64 {
	return m.retriesTotal.Load()
}

// TransportFaults returns the number of calls that failed without a
// classified result.
func (m *Metrics) TransportFaults() uint64 {
	return m.transportFaults.Load()
}

// AvgOperationTime returns the average operation duration.
func (m *Metrics) AvgOperationTime() time.Duration {
	total := m.operationsTotal.Load()
	if total == 0 {
		return 0
	}
	avgNs := m.operationTimeTotal.Load() / total
	return time.Duration(avgNs) //nolint:gosec // Safe: avgNs represents nanoseconds within int64 range
}

// MinOperationTime returns the minimum operation duration.
func (m *Metrics) MinOperationTime() time.Duration {
	minVal := m.operationTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxOperationTime returns the maximum operation duration.
func (m *Metrics) MaxOperationTime() time.Duration {
	return time.Duration(m.operationTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}
