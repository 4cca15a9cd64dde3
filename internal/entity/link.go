// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which binds a generated phrase to a target URL,
// the Phrase value object, the vocabulary descriptors used for phrase generation,
// visit statistics records and the events raised by the application.
package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxPhraseLength is the maximum number of characters in a phrase.
	MaxPhraseLength = 256
	// MaxTargetURLLength is the maximum number of characters in a target URL.
	MaxTargetURLLength = 4096
)

var (
	// ErrInvalidPhrase is returned when a phrase is empty or too long.
	ErrInvalidPhrase = errors.New("invalid phrase")
	// ErrInvalidTargetURL is returned when a target URL is empty, too long or not an absolute http(s) URL.
	ErrInvalidTargetURL = errors.New("invalid target url")
	// ErrUnknownFormat is returned when a phrase format is not one of the known formats.
	ErrUnknownFormat = errors.New("unknown phrase format")
	// ErrVocabularyNotFound is returned when a vocabulary required for phrase generation is absent.
	ErrVocabularyNotFound = errors.New("vocabulary not found")
	// ErrPhraseAlreadyInUse is returned when a phrase is already assigned to another link.
	ErrPhraseAlreadyInUse = errors.New("phrase already in use")
	// ErrLinkNotFound is returned when a link with the specified phrase cannot be found.
	ErrLinkNotFound = errors.New("link not found")
)

// Phrase is a validated, human-memorable short name of a link.
// Phrases are compared by value.
type Phrase struct {
	value string
}

// NewPhrase validates s and wraps it into a Phrase.
func NewPhrase(s string) (Phrase, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Phrase{}, fmt.Errorf("%w: phrase is empty", ErrInvalidPhrase)
	}
	if utf8.RuneCountInString(s) > MaxPhraseLength {
		return Phrase{}, fmt.Errorf("%w: phrase is longer than %d characters", ErrInvalidPhrase, MaxPhraseLength)
	}

	return Phrase{value: s}, nil
}

// String returns the phrase text.
func (p Phrase) String() string {
	return p.value
}

// IsZero reports whether p is the zero Phrase.
func (p Phrase) IsZero() bool {
	return p.value == ""
}

// ValidateTargetURL checks that s is an absolute http(s) URL of acceptable length.
func ValidateTargetURL(s string) error {
	if s == "" {
		return fmt.Errorf("%w: url is empty", ErrInvalidTargetURL)
	}
	if utf8.RuneCountInString(s) > MaxTargetURLLength {
		return fmt.Errorf("%w: url is longer than %d characters", ErrInvalidTargetURL, MaxTargetURLLength)
	}

	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTargetURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be an absolute http or https url", ErrInvalidTargetURL)
	}

	return nil
}

// Link represents a phrase assigned to a target URL.
type Link struct {
	ID        string    // ID is the opaque unique identifier of the link.
	Phrase    Phrase    // Phrase is the generated phrase that resolves to the target URL.
	TargetURL string    // TargetURL is the full URL that the phrase resolves to.
	Language  Language  // Language is the language the phrase was generated in.
	Theme     Theme     // Theme is the vocabulary theme the phrase was generated from.
	CreatedAt time.Time // CreatedAt is the timestamp when the link was created.
}

// CachedLink is the part of a link needed to serve a redirect.
type CachedLink struct {
	LinkID    string   `json:"link_id"`
	TargetURL string   `json:"target_url"`
	Language  Language `json:"language"`
	Theme     Theme    `json:"theme"`
}

// ToCachedLink returns the redirect payload of the link.
func (l *Link) ToCachedLink() *CachedLink {
	return &CachedLink{
		LinkID:    l.ID,
		TargetURL: l.TargetURL,
		Language:  l.Language,
		Theme:     l.Theme,
	}
}

// LinkStats contains statistics related to a link.
type LinkStats struct {
	Link        *Link
	TotalVisits int64 // TotalVisits is the number of persisted visits of the link.
}
