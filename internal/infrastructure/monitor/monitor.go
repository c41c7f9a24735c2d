package monitor

import (
	"runtime"
	"sync"
	"time"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

const defaultInterval = 30 * time.Second

// Monitor samples process resources on its own timer and times named
// operations. It never blocks the traversal: sampling runs in a background
// goroutine and Track only appends under a short lock.
type Monitor struct {
	interval time.Duration
	log      output.LoggerPort

	mu            sync.Mutex
	samples       int
	peakHeap      uint64
	maxGoroutines int
	operations    map[string]*opStats

	stop chan struct{}
	done chan struct{}
}

type opStats struct {
	count int
	total time.Duration
	max   time.Duration
}

func New(interval time.Duration, log output.LoggerPort) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{
		interval:   interval,
		log:        log,
		operations: map[string]*opStats{},
	}
}

func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// Track times one operation; call the returned func when it finishes.
func (m *Monitor) Track(operation string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		m.mu.Lock()
		defer m.mu.Unlock()
		stats, ok := m.operations[operation]
		if !ok {
			stats = &opStats{}
			m.operations[operation] = stats
		}
		stats.count++
		stats.total += elapsed
		if elapsed > stats.max {
			stats.max = elapsed
		}
	}
}

func (m *Monitor) Summary() *entity.PerformanceSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := &entity.PerformanceSummary{
		Samples:       m.samples,
		PeakHeapBytes: m.peakHeap,
		MaxGoroutines: m.maxGoroutines,
	}
	if len(m.operations) > 0 {
		summary.Operations = make(map[string]entity.OperationStats, len(m.operations))
		for name, stats := range m.operations {
			summary.Operations[name] = entity.OperationStats{
				Count:   stats.count,
				TotalMs: stats.total.Milliseconds(),
				MaxMs:   stats.max.Milliseconds(),
			}
		}
	}
	return summary
}

func (m *Monitor) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *Monitor) sample() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	goroutines := runtime.NumGoroutine()

	m.mu.Lock()
	m.samples++
	if stats.HeapAlloc > m.peakHeap {
		m.peakHeap = stats.HeapAlloc
	}
	if goroutines > m.maxGoroutines {
		m.maxGoroutines = goroutines
	}
	m.mu.Unlock()

	m.log.Debug("Resource sample",
		"heap_bytes", stats.HeapAlloc, "goroutines", goroutines)
}
