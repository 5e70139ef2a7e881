package fhirclient

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_RecordOperation(t *testing.T) {
	m := NewMetrics()

	m.RecordOperation(10*time.Millisecond, true)
	m.RecordOperation(20*time.Millisecond, false)
	m.RecordOperation(30*time.Millisecond, true)

	if got := m.OperationsTotal(); got != 3 {
		t.Errorf("OperationsTotal() = %d; want 3", got)
	}
	if got := m.OperationsOK(); got != 2 {
		t.Errorf("OperationsOK() = %d; want 2", got)
	}
	if got := m.SuccessRate(); got < 0.66 || got > 0.67 {
		t.Errorf("SuccessRate() = %v; want 2/3", got)
	}
	if got := m.MinOperationTime(); got != 10*time.Millisecond {
		t.Errorf("MinOperationTime() = %v; want 10ms", got)
	}
	if got := m.MaxOperationTime(); got != 30*time.Millisecond {
		t.Errorf("MaxOperationTime() = %v; want 30ms", got)
	}
	if got := m.AvgOperationTime(); got != 20*time.Millisecond {
		t.Errorf("AvgOperationTime() = %v; want 20ms", got)
	}
}

func TestMetrics_Empty(t *testing.T) {
	m := NewMetrics()

	if got := m.SuccessRate(); got != 0 {
		t.Errorf("SuccessRate() = %v; want 0 with no operations", got)
	}
	if got := m.MinOperationTime(); got != 0 {
		t.Errorf("MinOperationTime() = %v; want 0 with no operations", got)
	}
	if got := m.AvgOperationTime(); got != 0 {
		t.Errorf("AvgOperationTime() = %v; want 0 with no operations", got)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRetry()
	m.RecordRetry()
	m.RecordTransportFault()

	if got := m.RetriesTotal(); got != 2 {
		t.Errorf("RetriesTotal() = %d; want 2", got)
	}
	if got := m.TransportFaults(); got != 1 {
		t.Errorf("TransportFaults() = %d; want 1", got)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordOperation(time.Millisecond, j%2 == 0)
				m.RecordRetry()
			}
		}()
	}
	wg.Wait()

	if got := m.OperationsTotal(); got != 1000 {
		t.Errorf("OperationsTotal() = %d; want 1000", got)
	}
	if got := m.OperationsOK(); got != 500 {
		t.Errorf("OperationsOK() = %d; want 500", got)
	}
	if got := m.RetriesTotal(); got != 1000 {
		t.Errorf("RetriesTotal() = %d; want 1000", got)
	}
}
