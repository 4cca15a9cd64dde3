package vocabulary

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

const defaultCacheTTL = 12 * time.Hour

type loader interface {
	Download(ctx context.Context, path string) ([]byte, bool, error)
}

// Store serves word lists, keeping loaded ones in memory.
// A nil vocabulary with a nil error means the word list does not exist.
type Store struct {
	loader loader
	cache  *cache.Cache
	ttl    time.Duration
}

// NewStore returns a store caching loaded word lists for ttl.
func NewStore(l loader, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Store{
		loader: l,
		cache:  cache.New(ttl, ttl/2),
		ttl:    ttl,
	}
}

func (s *Store) GetNouns(
	ctx context.Context,
	lang entity.Language,
	off entity.Offensiveness,
	number entity.GrammaticalNumber,
	gender entity.GrammaticalGender,
	theme entity.Theme,
) (*entity.Vocabulary, error) {
	return s.get(ctx, entity.NounsDescriptor(lang, off, number, gender, theme))
}

func (s *Store) GetAdjectives(
	ctx context.Context,
	lang entity.Language,
	off entity.Offensiveness,
	number entity.GrammaticalNumber,
	gender entity.GrammaticalGender,
) (*entity.Vocabulary, error) {
	return s.get(ctx, entity.AdjectivesDescriptor(lang, off, number, gender))
}

func (s *Store) GetAdverbs(ctx context.Context, lang entity.Language, off entity.Offensiveness) (*entity.Vocabulary, error) {
	return s.get(ctx, entity.AdverbsDescriptor(lang, off))
}

func (s *Store) get(ctx context.Context, d entity.VocabularyDescriptor) (*entity.Vocabulary, error) {
	const op = "adapter.vocabulary.Store.get"

	key := d.CacheKey()

	if v, ok := s.cache.Get(key); ok {
		return v.(*entity.Vocabulary), nil
	}

	data, ok, err := s.loader.Download(ctx, d.Path())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load %s: %w", op, d.Path(), err)
	}
	if !ok {
		return nil, nil
	}

	vocab, ok := entity.ParseVocabulary(d, data)
	if !ok {
		return nil, nil
	}

	s.cache.Set(key, vocab, s.ttl)

	return vocab, nil
}
