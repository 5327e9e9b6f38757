package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/metrics"
	"github.com/X1ag/RideBoard/internal/usecase"
)

// Worker periodically publishes store and session sizes as gauges.
type Worker struct {
	tripUC   *usecase.TripUsecase
	sessions domain.SessionRepository
	metrics  *metrics.Metrics
	interval time.Duration
	log      *slog.Logger
}

func NewWorker(tripUC *usecase.TripUsecase, sessions domain.SessionRepository, m *metrics.Metrics, interval time.Duration, log *slog.Logger) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		tripUC:   tripUC,
		sessions: sessions,
		metrics:  m,
		interval: interval,
		log:      log.With("component", "worker"),
	}
}

// Run refreshes once right away and then on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Worker) refresh(ctx context.Context) {
	countCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	n, err := w.tripUC.Count(countCtx)
	if err != nil {
		w.metrics.StorageError("count")
		w.log.Error("error counting trips", "err", err)
	} else {
		w.metrics.SetPostingsStored(n)
	}
	w.metrics.SetSessionsActive(w.sessions.Len())
}
