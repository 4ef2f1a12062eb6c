package shutdown

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// InFlightTracker counts requests in progress so shutdown can wait for them
type InFlightTracker struct {
	mu           sync.Mutex
	wg           sync.WaitGroup
	shuttingDown bool
	logger       *zap.Logger
	name         string
}

// NewInFlightTracker creates a new in-flight work tracker
func NewInFlightTracker(name string, logger *zap.Logger) *InFlightTracker {
	return &InFlightTracker{
		logger: logger,
		name:   name,
	}
}

// Add registers one unit of work. It returns false once shutdown started.
func (ift *InFlightTracker) Add() bool {
	ift.mu.Lock()
	defer ift.mu.Unlock()

	if ift.shuttingDown {
		return false
	}
	ift.wg.Add(1)
	return true
}

// Done marks one unit of work finished
func (ift *InFlightTracker) Done() {
	ift.wg.Done()
}

// IsShuttingDown returns true if shutdown has been initiated
func (ift *InFlightTracker) IsShuttingDown() bool {
	ift.mu.Lock()
	defer ift.mu.Unlock()
	return ift.shuttingDown
}

// Shutdown rejects new work and waits for the current work or ctx
func (ift *InFlightTracker) Shutdown(ctx context.Context) error {
	ift.mu.Lock()
	ift.shuttingDown = true
	ift.mu.Unlock()

	ift.logger.Info("Waiting for in-flight work to complete",
		zap.String("tracker", ift.name),
	)

	done := make(chan struct{})
	go func() {
		ift.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		ift.logger.Warn("Shutdown timeout - some work may be incomplete",
			zap.String("tracker", ift.name),
		)
		return ctx.Err()
	}
}

// Middleware tracks every request and answers 503 once draining
func (ift *InFlightTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ift.Add() {
			w.Header().Set("Connection", "close")
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		defer ift.Done()
		next.ServeHTTP(w, r)
	})
}

// PeriodicWorker runs a function on an interval until stopped
type PeriodicWorker struct {
	name     string
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewPeriodicWorker creates a new periodic worker
func NewPeriodicWorker(name string, interval time.Duration, logger *zap.Logger) *PeriodicWorker {
	return &PeriodicWorker{
		name:     name,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs work immediately and then on every tick
func (pw *PeriodicWorker) Start(work func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	pw.cancel = cancel

	go func() {
		defer close(pw.done)

		ticker := time.NewTicker(pw.interval)
		defer ticker.Stop()

		work(ctx)
		for {
			select {
			case <-ctx.Done():
				pw.logger.Info("Periodic worker stopped", zap.String("worker", pw.name))
				return
			case <-ticker.C:
				work(ctx)
			}
		}
	}()
}

// Shutdown cancels the worker and waits for the current run
func (pw *PeriodicWorker) Shutdown(ctx context.Context) error {
	if pw.cancel == nil {
		return nil
	}
	pw.cancel()

	select {
	case <-pw.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
