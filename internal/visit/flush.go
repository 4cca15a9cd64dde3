package visit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

const (
	defaultFlushInterval   = time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

type summaryRepository interface {
	UpsertTotalVisitsForMany(ctx context.Context, counts []entity.VisitCount) error
}

// FlushWorker periodically moves the counts accumulated by a Counter into durable storage.
type FlushWorker struct {
	counter         *Counter
	repo            summaryRepository
	interval        time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	registerer      prometheus.Registerer

	flushedVisits prometheus.Counter
	failures      prometheus.Counter
}

type FlushOption func(*FlushWorker)

func WithFlushInterval(d time.Duration) FlushOption {
	return func(w *FlushWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithShutdownTimeout(d time.Duration) FlushOption {
	return func(w *FlushWorker) {
		if d > 0 {
			w.shutdownTimeout = d
		}
	}
}

func WithFlushLogger(logger *slog.Logger) FlushOption {
	return func(w *FlushWorker) {
		w.logger = logger
	}
}

// WithRegisterer registers the worker metrics in reg. Metrics are not registered by default.
func WithRegisterer(reg prometheus.Registerer) FlushOption {
	return func(w *FlushWorker) {
		w.registerer = reg
	}
}

func NewFlushWorker(counter *Counter, repo summaryRepository, opts ...FlushOption) *FlushWorker {
	w := &FlushWorker{
		counter:         counter,
		repo:            repo,
		interval:        defaultFlushInterval,
		shutdownTimeout: defaultShutdownTimeout,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(w)
	}

	factory := promauto.With(w.registerer)
	w.flushedVisits = factory.NewCounter(prometheus.CounterOpts{
		Name: "visit_flush_visits_total",
		Help: "Total number of visits persisted by the flush worker",
	})
	w.failures = factory.NewCounter(prometheus.CounterOpts{
		Name: "visit_flush_failures_total",
		Help: "Total number of failed visit flushes",
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "visit_pending_links",
		Help: "Number of links with visits waiting to be flushed",
	}, func() float64 {
		return float64(counter.Pending())
	})

	return w
}

// Run flushes the counter every interval until ctx is done, then flushes one last time.
// Flush failures are logged and do not stop the loop.
func (w *FlushWorker) Run(ctx context.Context) error {
	const op = "visit.FlushWorker.Run"

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Flush(ctx); err != nil {
				w.logger.Error("failed to flush visits", slog.String("op", op), slog.Any("err", err))
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.shutdownTimeout)
			defer cancel()

			if err := w.Flush(shutdownCtx); err != nil {
				w.logger.Error("failed to flush visits on shutdown", slog.String("op", op), slog.Any("err", err))
			}

			return nil
		}
	}
}

// Flush drains the counter and persists the snapshot. Drained counts are not
// restored if persisting fails.
func (w *FlushWorker) Flush(ctx context.Context) error {
	const op = "visit.FlushWorker.Flush"

	counts := w.counter.Drain()
	if len(counts) == 0 {
		return nil
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}

	if err := w.repo.UpsertTotalVisitsForMany(ctx, counts); err != nil {
		w.failures.Inc()
		return fmt.Errorf("%s: failed to persist %d visit counts: %w", op, len(counts), err)
	}

	w.flushedVisits.Add(float64(total))
	w.logger.Info("visits flushed", slog.Int("links", len(counts)), slog.Int64("visits", total))

	return nil
}
