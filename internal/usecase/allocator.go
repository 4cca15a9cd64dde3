package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

const defaultMaxAttempts = 10

type phraseGenerator interface {
	Generate(ctx context.Context, format entity.Format, lang entity.Language, theme entity.Theme) (entity.Phrase, error)
}

type phraseChecker interface {
	ExistsByPhrase(ctx context.Context, phrase entity.Phrase) (bool, error)
}

// ClaimFunc reserves phrase, typically by storing the link that uses it.
// It reports entity.ErrPhraseAlreadyInUse if the phrase was taken concurrently.
type ClaimFunc func(ctx context.Context, phrase entity.Phrase) error

// PhraseAllocator generates phrases until it finds one that is not in use.
type PhraseAllocator struct {
	generator   phraseGenerator
	links       phraseChecker
	maxAttempts int
}

func NewPhraseAllocator(generator phraseGenerator, links phraseChecker, maxAttempts int) *PhraseAllocator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &PhraseAllocator{
		generator:   generator,
		links:       links,
		maxAttempts: maxAttempts,
	}
}

// Allocate returns a phrase that is not in use and has been claimed by claim.
// A nil claim only checks the phrase against the link store.
// Only phrase collisions are retried; any other failure is returned immediately.
func (a *PhraseAllocator) Allocate(
	ctx context.Context,
	format entity.Format,
	lang entity.Language,
	theme entity.Theme,
	claim ClaimFunc,
) (entity.Phrase, error) {
	const op = "usecase.PhraseAllocator.Allocate"

	var lastErr error

	for range a.maxAttempts {
		phrase, err := a.generator.Generate(ctx, format, lang, theme)
		if err != nil {
			return entity.Phrase{}, fmt.Errorf("%s: failed to generate phrase: %w", op, err)
		}

		exists, err := a.links.ExistsByPhrase(ctx, phrase)
		if err != nil {
			return entity.Phrase{}, fmt.Errorf("%s: failed to check phrase: %w", op, err)
		}
		if exists {
			lastErr = fmt.Errorf("%q: %w", phrase, entity.ErrPhraseAlreadyInUse)
			continue
		}

		if claim != nil {
			if err := claim(ctx, phrase); err != nil {
				if errors.Is(err, entity.ErrPhraseAlreadyInUse) {
					lastErr = err
					continue
				}
				return entity.Phrase{}, fmt.Errorf("%s: failed to claim phrase: %w", op, err)
			}
		}

		return phrase, nil
	}

	return entity.Phrase{}, fmt.Errorf("%s: no free phrase after %d attempts: %w", op, a.maxAttempts, lastErr)
}
