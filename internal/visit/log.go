package visit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

const defaultLogTimeout = 5 * time.Second

type logRepository interface {
	Save(ctx context.Context, entry *entity.VisitLogEntry) error
}

// LogSink appends one visit log row per visit without making the caller wait for the write.
type LogSink struct {
	repo    logRepository
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewLogSink returns a LogSink writing to repo. Each write is bounded by timeout.
func NewLogSink(repo logRepository, timeout time.Duration, logger *slog.Logger) *LogSink {
	if timeout <= 0 {
		timeout = defaultLogTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &LogSink{
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

// Record writes the entry in the background. The write outlives ctx cancellation.
func (s *LogSink) Record(ctx context.Context, entry *entity.VisitLogEntry) {
	const op = "visit.LogSink.Record"

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.repo.Save(ctx, entry); err != nil {
			s.logger.Warn("failed to write visit log",
				slog.String("op", op),
				slog.String("link_id", entry.LinkID),
				slog.Any("err", err),
			)
		}
	}()
}

// Close waits for in-flight writes.
func (s *LogSink) Close() {
	s.wg.Wait()
}
