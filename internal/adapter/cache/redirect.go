package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

const redirectKeyPrefix = "link:target:"

// Provider is a key-value store with per-key expiration.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedirectCache maps phrases to the data needed to serve a redirect.
// Entries are never invalidated: links are immutable once created.
type RedirectCache struct {
	provider Provider
	ttl      time.Duration
}

func NewRedirectCache(provider Provider, ttl time.Duration) *RedirectCache {
	return &RedirectCache{
		provider: provider,
		ttl:      ttl,
	}
}

func redirectKey(phrase entity.Phrase) string {
	return redirectKeyPrefix + phrase.String()
}

func (c *RedirectCache) Get(ctx context.Context, phrase entity.Phrase) (*entity.CachedLink, bool, error) {
	const op = "adapter.cache.RedirectCache.Get"

	data, ok, err := c.provider.Get(ctx, redirectKey(phrase))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, false, nil
	}

	var link entity.CachedLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, false, fmt.Errorf("%s: failed to decode cached link: %w", op, err)
	}

	return &link, true, nil
}

func (c *RedirectCache) Set(ctx context.Context, phrase entity.Phrase, link *entity.CachedLink) error {
	const op = "adapter.cache.RedirectCache.Set"

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("%s: failed to encode link: %w", op, err)
	}

	if err := c.provider.Set(ctx, redirectKey(phrase), data, c.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
