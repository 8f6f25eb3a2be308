// internal/app/system/workers/limitercleanup.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cleaner drops idle rate-limit buckets.
type Cleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// LimiterCleanup periodically trims idle buckets from rate limiters.
type LimiterCleanup struct {
	limiters []Cleaner
	log      *zap.Logger
	interval time.Duration
	maxIdle  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLimiterCleanup creates the worker.
func NewLimiterCleanup(logger *zap.Logger, interval, maxIdle time.Duration, limiters ...Cleaner) *LimiterCleanup {
	return &LimiterCleanup{
		limiters: limiters,
		log:      logger,
		interval: interval,
		maxIdle:  maxIdle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *LimiterCleanup) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-w.stopCh:
				return
			case <-t.C:
				w.RunOnce()
			}
		}
	}()
}

// RunOnce cleans every limiter now.
func (w *LimiterCleanup) RunOnce() int {
	total := 0
	for _, l := range w.limiters {
		total += l.Cleanup(w.maxIdle)
	}
	if total > 0 {
		w.log.Debug("rate limiter cleanup", zap.Int("removed", total))
	}
	return total
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LimiterCleanup) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}
