// Package connectivity tracks whether the sync server is reachable. Rural
// links flap, so a single good probe is not trusted: the monitor requires a
// run of consecutive successes before reporting a recovery.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/materna-health/materna/internal/logging"
)

// Prober answers one reachability question. The sync server client
// satisfies it with its Ping method.
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor polls a Prober on an interval and notifies subscribers once per
// unreachable-to-reachable transition.
type Monitor struct {
	prober    Prober
	logger    logging.Logger
	interval  time.Duration
	threshold int

	mu        sync.Mutex
	reachable bool
	streak    int
	onUp      []func()

	cancel context.CancelFunc
	done   chan struct{}
}

type MonitorOption func(*Monitor)

// WithThreshold sets how many consecutive successful probes are required
// before the link is considered recovered.
func WithThreshold(n int) MonitorOption {
	return func(m *Monitor) {
		if n > 0 {
			m.threshold = n
		}
	}
}

func NewMonitor(prober Prober, interval time.Duration, logger logging.Logger, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		prober:    prober,
		logger:    logger,
		interval:  interval,
		threshold: 2,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnReachable registers a callback fired asynchronously each time the link
// transitions from unreachable to reachable. Registration order is the
// invocation order.
func (m *Monitor) OnReachable(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUp = append(m.onUp, fn)
}

func (m *Monitor) Reachable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reachable
}

// Start launches the polling loop. It probes once immediately so startup
// state does not wait a full interval.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		m.probe(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	err := m.prober.Ping(probeCtx)
	cancel()

	m.mu.Lock()
	if err != nil {
		if m.reachable {
			m.logger.Warn(ctx, "server unreachable", "error", err.Error())
		}
		m.reachable = false
		m.streak = 0
		m.mu.Unlock()
		return
	}

	m.streak++
	fire := !m.reachable && m.streak >= m.threshold
	if fire {
		m.reachable = true
	}
	callbacks := m.onUp
	m.mu.Unlock()

	if fire {
		m.logger.Info(ctx, "server reachable")
		for _, fn := range callbacks {
			go fn()
		}
	}
}
