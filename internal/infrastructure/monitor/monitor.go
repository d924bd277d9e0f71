// Package monitor keeps a cached view of backend API reachability so health
// checks never block on the upstream.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger reports whether the upstream answers within the probe timeout.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Status is the last observed upstream state.
type Status struct {
	Upstream  bool      `json:"upstream"`
	LastCheck time.Time `json:"last_check"`
}

type Monitor struct {
	upstream Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(upstream Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		upstream: upstream,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Upstream
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	up := m.checkUpstream()
	status := Status{
		Upstream:  up,
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	prev := m.status.Upstream
	m.status = status
	m.mu.Unlock()

	if prev && !up {
		m.logger.Warn("backend API became unreachable")
	}
}

func (m *Monitor) checkUpstream() bool {
	if m.upstream == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.upstream.Ping(ctx)
}
