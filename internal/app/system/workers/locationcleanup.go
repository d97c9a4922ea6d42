// internal/app/system/workers/locationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	locationstore "github.com/familiahq/familia/internal/app/store/locations"
)

// LocationCleanup is a background worker that prunes stale shared positions.
// A position that has not been refreshed within the retention window no
// longer reflects where anyone is, so the map should stop showing it.
type LocationCleanup struct {
	locations *locationstore.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewLocationCleanup creates a new location cleanup worker.
//
// Parameters:
//   - locations: the locations store
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 10 minutes)
//   - retention: how long a position stays visible without a refresh (e.g., 24 hours)
func NewLocationCleanup(locations *locationstore.Store, logger *zap.Logger, interval, retention time.Duration) *LocationCleanup {
	return &LocationCleanup{
		locations: locations,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *LocationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("location cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LocationCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("location cleanup worker stopped")
}

func (w *LocationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *LocationCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.locations.DeleteStale(ctx, w.retention)
	if err != nil {
		w.log.Error("failed to prune stale locations", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned stale locations", zap.Int64("count", count))
	}
}
