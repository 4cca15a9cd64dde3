package entity

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxWordLength is the maximum number of characters in a vocabulary word.
const MaxWordLength = 64

// Rand is the source of randomness used to draw words.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide random source. It is safe for concurrent use.
var DefaultRand Rand = globalRand{}

// VocabularyDescriptor identifies a word list.
type VocabularyDescriptor struct {
	Language      Language
	Theme         Theme
	Offensiveness Offensiveness
	Number        GrammaticalNumber
	Gender        GrammaticalGender
	PartOfSpeech  PartOfSpeech
}

// NounsDescriptor describes a noun word list.
func NounsDescriptor(lang Language, off Offensiveness, number GrammaticalNumber, gender GrammaticalGender, theme Theme) VocabularyDescriptor {
	return VocabularyDescriptor{
		Language:      lang,
		Theme:         theme,
		Offensiveness: off,
		Number:        number,
		Gender:        gender,
		PartOfSpeech:  PartOfSpeechNoun,
	}
}

// AdjectivesDescriptor describes an adjective word list. Adjectives are not themed.
func AdjectivesDescriptor(lang Language, off Offensiveness, number GrammaticalNumber, gender GrammaticalGender) VocabularyDescriptor {
	return VocabularyDescriptor{
		Language:      lang,
		Offensiveness: off,
		Number:        number,
		Gender:        gender,
		PartOfSpeech:  PartOfSpeechAdjective,
	}
}

// AdverbsDescriptor describes an adverb word list. Adverbs are not themed and do not inflect.
func AdverbsDescriptor(lang Language, off Offensiveness) VocabularyDescriptor {
	return VocabularyDescriptor{
		Language:      lang,
		Offensiveness: off,
		PartOfSpeech:  PartOfSpeechAdverb,
	}
}

// CacheKey returns the key the word list is cached under.
func (d VocabularyDescriptor) CacheKey() string {
	return fmt.Sprintf("vocabulary:%s:%s:%s:%s:%s:%s",
		d.Language, d.Offensiveness, d.Number, d.Gender, d.Theme, d.PartOfSpeech)
}

// Path returns the location of the word list in the content source.
func (d VocabularyDescriptor) Path() string {
	return fmt.Sprintf("/%s/%s/%s/%s/%s/%ss.txt",
		d.Language, d.Offensiveness, d.Number, d.Gender, d.Theme, d.PartOfSpeech)
}

// Vocabulary is an immutable word list.
type Vocabulary struct {
	descriptor VocabularyDescriptor
	words      []string
}

// NewVocabulary returns a vocabulary of the given words. It returns false if words is empty.
func NewVocabulary(d VocabularyDescriptor, words []string) (*Vocabulary, bool) {
	if len(words) == 0 {
		return nil, false
	}

	return &Vocabulary{
		descriptor: d,
		words:      append([]string(nil), words...),
	}, true
}

// ParseVocabulary reads one word per line from data, dropping invalid words.
// It returns false if no valid word remains.
func ParseVocabulary(d VocabularyDescriptor, data []byte) (*Vocabulary, bool) {
	var words []string

	for _, line := range bytes.Split(data, []byte("\n")) {
		word := strings.TrimSpace(string(line))
		if IsValidWord(word) {
			words = append(words, word)
		}
	}

	return NewVocabulary(d, words)
}

// Descriptor returns the descriptor of the vocabulary.
func (v *Vocabulary) Descriptor() VocabularyDescriptor {
	return v.descriptor
}

// Len returns the number of words in the vocabulary.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Pick returns a word chosen uniformly at random.
func (v *Vocabulary) Pick(r Rand) string {
	return v.words[r.IntN(len(v.words))]
}

// IsValidWord reports whether s can be used as a phrase word: letters and marks,
// optionally joined by single inner hyphens or apostrophes.
func IsValidWord(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > MaxWordLength {
		return false
	}

	prevJoiner := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsMark(r):
			prevJoiner = false
		case r == '-' || r == '\'':
			if prevJoiner {
				return false
			}
			prevJoiner = true
		default:
			return false
		}
	}

	return !prevJoiner
}
