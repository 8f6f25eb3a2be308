// internal/app/system/workers/notifypoller.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller is the notification center as seen by the worker.
type Poller interface {
	Poll(ctx context.Context) (int, error)
	Sweep() int
}

// NotifyPoller polls the backend for notifications on a fixed interval
// and sweeps stale cooldown entries on a slower one.
type NotifyPoller struct {
	center        Poller
	log           *zap.Logger
	interval      time.Duration
	sweepInterval time.Duration
	callTimeout   time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewNotifyPoller creates the worker. The first poll runs as soon as
// Start is called.
//
//   - interval: time between polls (2 minutes in production)
//   - sweepInterval: time between cooldown sweeps (5 minutes)
func NewNotifyPoller(center Poller, logger *zap.Logger, interval, sweepInterval time.Duration) *NotifyPoller {
	return &NotifyPoller{
		center:        center,
		log:           logger,
		interval:      interval,
		sweepInterval: sweepInterval,
		callTimeout:   30 * time.Second,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *NotifyPoller) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification poller started",
		zap.Duration("interval", w.interval),
		zap.Duration("sweep_interval", w.sweepInterval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *NotifyPoller) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("notification poller stopped")
}

func (w *NotifyPoller) run() {
	defer w.wg.Done()

	poll := time.NewTicker(w.interval)
	defer poll.Stop()
	sweep := time.NewTicker(w.sweepInterval)
	defer sweep.Stop()

	w.poll()
	for {
		select {
		case <-w.stopCh:
			return
		case <-poll.C:
			w.poll()
		case <-sweep.C:
			if n := w.center.Sweep(); n > 0 {
				w.log.Debug("swept notification cooldowns", zap.Int("removed", n))
			}
		}
	}
}

func (w *NotifyPoller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), w.callTimeout)
	defer cancel()

	added, err := w.center.Poll(ctx)
	if err != nil {
		w.log.Warn("notification poll failed", zap.Error(err))
		return
	}
	if added > 0 {
		w.log.Info("new notifications", zap.Int("count", added))
	}
}
