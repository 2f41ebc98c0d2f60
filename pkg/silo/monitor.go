// Package silo pkg/silo/monitor.go

package silo

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Aboubacarelhacen/silo/pkg/config"
	"github.com/Aboubacarelhacen/silo/pkg/models"
	"github.com/Aboubacarelhacen/silo/pkg/opc"
)

// Monitor drives the fixed-interval poll cycle: read both measurements,
// record them, classify, and broadcast. One goroutine, one writer per
// stream. A failure on one stream never blocks the other in the same
// cycle, and no cycle failure stops subsequent cycles.
type Monitor struct {
	cfg    config.MonitorConfig
	source DataSource
	store  *Store
	pub    Publisher

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor wires the poll loop to its collaborators. Dependencies are
// injected by explicit construction so tests can substitute doubles.
func NewMonitor(cfg config.MonitorConfig, source DataSource, store *Store, pub Publisher) *Monitor {
	return &Monitor{
		cfg:    cfg,
		source: source,
		store:  store,
		pub:    pub,
	}
}

// Store exposes the sample store for the query surface.
func (m *Monitor) Store() *Store {
	return m.store
}

// Start launches the poll loop.
func (m *Monitor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx)

	return nil
}

// Stop cancels the loop and waits for the current iteration to finish.
func (m *Monitor) Stop(ctx context.Context) error {
	if m.cancel == nil {
		return nil
	}

	m.cancel()

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	log.Printf("monitor: starting, warm-up %v, interval %v",
		time.Duration(m.cfg.WarmupDelay), time.Duration(m.cfg.PollInterval))

	// Let dependent subsystems finish initializing before the first read.
	if !sleepCtx(ctx, time.Duration(m.cfg.WarmupDelay)) {
		return
	}

	for {
		if ctx.Err() != nil {
			log.Printf("monitor: stopping")
			return
		}

		m.pollLevel(ctx)
		m.pollTemperature(ctx)

		// Fixed delay, not fixed rate: a slow cycle pushes later ticks
		// out instead of queuing them.
		if !sleepCtx(ctx, time.Duration(m.cfg.PollInterval)) {
			log.Printf("monitor: stopping")
			return
		}
	}
}

func (m *Monitor) pollLevel(ctx context.Context) {
	value, err := m.source.ReadLevel(ctx)
	if err != nil {
		m.logReadError(models.StreamLevel, err)
		return
	}

	now := time.Now().UTC()
	m.store.Record(models.StreamLevel, models.Sample{Timestamp: now, Value: value})

	m.pub.Publish(models.TopicLevelUpdated, models.LevelUpdate{
		LevelPercent: value,
		Status:       LevelStatus(value),
		Timestamp:    now,
	})
}

func (m *Monitor) pollTemperature(ctx context.Context) {
	value, err := m.source.ReadTemperature(ctx)
	if err != nil {
		m.logReadError(models.StreamTemperature, err)
		return
	}

	now := time.Now().UTC()
	m.store.Record(models.StreamTemperature, models.Sample{Timestamp: now, Value: value})

	m.pub.Publish(models.TopicTemperatureUpdated, models.TemperatureUpdate{
		TemperatureC: value,
		Status:       TemperatureStatus(value),
		Timestamp:    now,
	})
}

// logReadError keeps a manual disconnect quiet: an idle source is an
// operator decision, not a fault. The stream's broadcast is skipped
// either way; stale data is never published.
func (m *Monitor) logReadError(stream string, err error) {
	if errors.Is(err, opc.ErrDisconnected) || errors.Is(err, context.Canceled) {
		return
	}

	log.Printf("monitor: %s read failed: %v", stream, err)
}

// sleepCtx waits for d or until ctx is canceled. Returns false when the
// wait was interrupted.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
