// Package usecase implements phrase generation and the link operations built on it.
package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const defaultPublishTimeout = 5 * time.Second

type phraseAllocator interface {
	Allocate(ctx context.Context, format entity.Format, lang entity.Language, theme entity.Theme, claim ClaimFunc) (entity.Phrase, error)
}

type linkRepository interface {
	Save(ctx context.Context, link *entity.Link) error
	GetByPhrase(ctx context.Context, phrase entity.Phrase) (*entity.Link, error)
}

type visitSummaryRepository interface {
	GetTotalVisits(ctx context.Context, linkID string) (int64, error)
}

type redirectCache interface {
	Get(ctx context.Context, phrase entity.Phrase) (*entity.CachedLink, bool, error)
	Set(ctx context.Context, phrase entity.Phrase, link *entity.CachedLink) error
}

type visitCounter interface {
	Record(linkID string)
}

type visitLogSink interface {
	Record(ctx context.Context, entry *entity.VisitLogEntry)
}

type eventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

// CreateLinkParams holds the input of LinkUseCase.CreateLink.
// Zero Format and Language are replaced by the configured defaults.
type CreateLinkParams struct {
	TargetURL string
	Format    entity.Format
	Language  entity.Language
	Theme     entity.Theme
}

type LinkUseCase struct {
	allocator phraseAllocator
	links     linkRepository
	summaries visitSummaryRepository
	cache     redirectCache
	counter   visitCounter
	visitLog  visitLogSink
	events    eventPublisher
	logger    *slog.Logger
	now       func() time.Time

	publishTimeout time.Duration
	publishing     sync.WaitGroup

	defaultFormat   entity.Format
	defaultLanguage entity.Language
}

type LinkOption func(*LinkUseCase)

func WithLogger(logger *slog.Logger) LinkOption {
	return func(uc *LinkUseCase) {
		uc.logger = logger
	}
}

// WithPublishTimeout bounds each event publish. Non-positive values keep the default.
func WithPublishTimeout(d time.Duration) LinkOption {
	return func(uc *LinkUseCase) {
		if d > 0 {
			uc.publishTimeout = d
		}
	}
}

// WithDefaults sets the format and language used when a request does not specify them.
func WithDefaults(format entity.Format, lang entity.Language) LinkOption {
	return func(uc *LinkUseCase) {
		if format != 0 {
			uc.defaultFormat = format
		}
		if lang != 0 {
			uc.defaultLanguage = lang
		}
	}
}

func NewLinkUseCase(
	allocator phraseAllocator,
	links linkRepository,
	summaries visitSummaryRepository,
	cache redirectCache,
	counter visitCounter,
	visitLog visitLogSink,
	events eventPublisher,
	opts ...LinkOption,
) *LinkUseCase {
	uc := &LinkUseCase{
		allocator:       allocator,
		links:           links,
		summaries:       summaries,
		cache:           cache,
		counter:         counter,
		visitLog:        visitLog,
		events:          events,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:             time.Now,
		publishTimeout:  defaultPublishTimeout,
		defaultFormat:   entity.FormatKebabCase,
		defaultLanguage: entity.LanguageEnglish,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// CreateLink assigns a new phrase to the target URL and stores the link.
func (uc *LinkUseCase) CreateLink(ctx context.Context, params CreateLinkParams) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.CreateLink"

	if err := entity.ValidateTargetURL(params.TargetURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	format := params.Format
	if format == 0 {
		format = uc.defaultFormat
	}
	lang := params.Language
	if lang == 0 {
		lang = uc.defaultLanguage
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate link id: %w", op, err)
	}

	link := &entity.Link{
		ID:        id,
		TargetURL: params.TargetURL,
		Language:  lang,
		Theme:     params.Theme,
	}

	phrase, err := uc.allocator.Allocate(ctx, format, lang, params.Theme, func(ctx context.Context, phrase entity.Phrase) error {
		link.Phrase = phrase
		return uc.links.Save(ctx, link)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	link.Phrase = phrase

	uc.publish(ctx, entity.LinkCreated{
		EventID:    uuid.NewString(),
		LinkID:     link.ID,
		Phrase:     link.Phrase.String(),
		TargetURL:  link.TargetURL,
		Language:   link.Language,
		Theme:      link.Theme,
		OccurredAt: uc.now(),
	})

	return link, nil
}

// ResolvePhrase returns the redirect target of the phrase and records the visit.
// Malformed phrases resolve to entity.ErrLinkNotFound.
func (uc *LinkUseCase) ResolvePhrase(ctx context.Context, rawPhrase string, info entity.VisitInfo) (*entity.CachedLink, error) {
	const op = "usecase.LinkUseCase.ResolvePhrase"

	phrase, err := entity.NewPhrase(rawPhrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	cached, ok, err := uc.cache.Get(ctx, phrase)
	if err != nil {
		uc.logger.Warn("failed to read redirect cache", slog.String("op", op), slog.Any("err", err))
	}

	if !ok {
		link, err := uc.links.GetByPhrase(ctx, phrase)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		cached = link.ToCachedLink()
		if err := uc.cache.Set(ctx, phrase, cached); err != nil {
			uc.logger.Warn("failed to populate redirect cache", slog.String("op", op), slog.Any("err", err))
		}
	}

	now := uc.now()

	uc.counter.Record(cached.LinkID)
	uc.visitLog.Record(ctx, info.ToLogEntry(cached.LinkID, now))
	uc.publish(ctx, entity.LinkVisited{
		EventID:    uuid.NewString(),
		LinkID:     cached.LinkID,
		Phrase:     phrase.String(),
		OccurredAt: now,
	})

	return cached, nil
}

// GetLinkStats returns the link with its persisted visit count.
// Visits not yet flushed from memory are not included.
func (uc *LinkUseCase) GetLinkStats(ctx context.Context, rawPhrase string) (*entity.LinkStats, error) {
	const op = "usecase.LinkUseCase.GetLinkStats"

	phrase, err := entity.NewPhrase(rawPhrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	link, err := uc.links.GetByPhrase(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total, err := uc.summaries.GetTotalVisits(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get total visits: %w", op, err)
	}

	return &entity.LinkStats{
		Link:        link,
		TotalVisits: total,
	}, nil
}

// Close waits for events that are still being published.
func (uc *LinkUseCase) Close() {
	uc.publishing.Wait()
}

// publish hands the event to the bus in the background. The publish outlives
// ctx cancellation and is bounded by the publish timeout.
func (uc *LinkUseCase) publish(ctx context.Context, event entity.Event) {
	const op = "usecase.LinkUseCase.publish"

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)

	uc.publishing.Add(1)
	go func() {
		defer uc.publishing.Done()
		defer cancel()

		if err := uc.events.Publish(publishCtx, event); err != nil {
			uc.logger.Warn("failed to publish event",
				slog.String("op", op),
				slog.String("event", event.EventName()),
				slog.Any("err", err),
			)
		}
	}()
}
