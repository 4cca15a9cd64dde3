package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

type vocabularyStore interface {
	GetNouns(ctx context.Context, lang entity.Language, off entity.Offensiveness, number entity.GrammaticalNumber, gender entity.GrammaticalGender, theme entity.Theme) (*entity.Vocabulary, error)
	GetAdjectives(ctx context.Context, lang entity.Language, off entity.Offensiveness, number entity.GrammaticalNumber, gender entity.GrammaticalGender) (*entity.Vocabulary, error)
	GetAdverbs(ctx context.Context, lang entity.Language, off entity.Offensiveness) (*entity.Vocabulary, error)
}

type agreementService interface {
	Resolve(ctx context.Context, lang entity.Language, theme entity.Theme) (entity.GrammaticalNumber, entity.GrammaticalGender, error)
}

// Synthesizer composes phrases of the form "adverb adjective noun" from random vocabulary words.
type Synthesizer struct {
	vocab     vocabularyStore
	agreement agreementService
	rand      entity.Rand
}

// NewSynthesizer returns a Synthesizer drawing from r. If r is nil, entity.DefaultRand is used.
func NewSynthesizer(vocab vocabularyStore, agreement agreementService, r entity.Rand) *Synthesizer {
	if r == nil {
		r = entity.DefaultRand
	}

	return &Synthesizer{
		vocab:     vocab,
		agreement: agreement,
		rand:      r,
	}
}

// Generate returns a new candidate phrase. It does not check whether the phrase is taken.
func (s *Synthesizer) Generate(ctx context.Context, format entity.Format, lang entity.Language, theme entity.Theme) (entity.Phrase, error) {
	const op = "usecase.Synthesizer.Generate"

	nounOff, adjOff, advOff := s.offensiveness(theme)

	number, gender, err := s.agree(ctx, lang, theme)
	if err != nil {
		return entity.Phrase{}, fmt.Errorf("%s: failed to resolve agreement: %w", op, err)
	}

	nouns, err := s.vocab.GetNouns(ctx, lang, nounOff, number, gender, theme)
	if err != nil {
		return entity.Phrase{}, fmt.Errorf("%s: failed to get nouns: %w", op, err)
	}
	if nouns == nil {
		return entity.Phrase{}, fmt.Errorf("%s: %s: %w", op,
			entity.NounsDescriptor(lang, nounOff, number, gender, theme).Path(), entity.ErrVocabularyNotFound)
	}

	adjectives, err := s.vocab.GetAdjectives(ctx, lang, adjOff, number, gender)
	if err != nil {
		return entity.Phrase{}, fmt.Errorf("%s: failed to get adjectives: %w", op, err)
	}
	if adjectives == nil {
		return entity.Phrase{}, fmt.Errorf("%s: %s: %w", op,
			entity.AdjectivesDescriptor(lang, adjOff, number, gender).Path(), entity.ErrVocabularyNotFound)
	}

	adverbs, err := s.vocab.GetAdverbs(ctx, lang, advOff)
	if err != nil {
		return entity.Phrase{}, fmt.Errorf("%s: failed to get adverbs: %w", op, err)
	}
	if adverbs == nil {
		return entity.Phrase{}, fmt.Errorf("%s: %s: %w", op,
			entity.AdverbsDescriptor(lang, advOff).Path(), entity.ErrVocabularyNotFound)
	}

	text, err := Convert(format, adverbs.Pick(s.rand), adjectives.Pick(s.rand), nouns.Pick(s.rand))
	if err != nil {
		return entity.Phrase{}, fmt.Errorf("%s: %w", op, err)
	}

	phrase, err := entity.NewPhrase(text)
	if err != nil {
		return entity.Phrase{}, fmt.Errorf("%s: %w", op, err)
	}

	return phrase, nil
}

// offensiveness decides which words of the phrase come from offensive vocabularies.
// At most one of the three is offensive.
func (s *Synthesizer) offensiveness(theme entity.Theme) (noun, adjective, adverb entity.Offensiveness) {
	switch {
	case theme == entity.ThemeDefault && s.coin():
		noun = entity.Offensive
	case s.coin():
		adjective = entity.Offensive
	case s.coin():
		adverb = entity.Offensive
	}

	return noun, adjective, adverb
}

func (s *Synthesizer) coin() bool {
	return s.rand.IntN(2) == 1
}

func (s *Synthesizer) agree(ctx context.Context, lang entity.Language, theme entity.Theme) (entity.GrammaticalNumber, entity.GrammaticalGender, error) {
	if lang == entity.LanguageEnglish {
		return entity.NumberNone, entity.GenderNone, nil
	}

	number, gender, err := s.agreement.Resolve(ctx, lang, theme)
	if err != nil {
		return entity.NumberNone, entity.GenderNone, err
	}

	if lang == entity.LanguagePolish && theme == entity.ThemePoliticians {
		number = entity.NumberSingular
	}

	return number, gender, nil
}

// Convert joins words with spaces and renders the result in the given format.
func Convert(format entity.Format, words ...string) (string, error) {
	const op = "usecase.Convert"

	s := strings.Join(words, " ")

	switch format {
	case entity.FormatKebabCase:
		return toKebabCase(s), nil
	case entity.FormatPascalCase:
		return toPascalCase(s), nil
	default:
		return "", fmt.Errorf("%s: %d: %w", op, format, entity.ErrUnknownFormat)
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func toKebabCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	separate := false
	for _, r := range strings.ToLower(s) {
		if !isWordRune(r) {
			separate = b.Len() > 0
			continue
		}

		if separate {
			b.WriteByte('-')
			separate = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

func toPascalCase(s string) string {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	})

	var b strings.Builder
	b.Grow(len(s))

	for _, seg := range segments {
		first, size := utf8.DecodeRuneInString(seg)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(seg[size:])
	}

	return b.String()
}
