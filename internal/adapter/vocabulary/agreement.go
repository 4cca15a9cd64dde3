package vocabulary

import (
	"context"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

var (
	numbers = []entity.GrammaticalNumber{entity.NumberSingular, entity.NumberPlural}
	genders = []entity.GrammaticalGender{entity.GenderMasculine, entity.GenderFeminine, entity.GenderNeuter}
)

// RandomAgreement picks the grammatical number and gender of a phrase at random
// for languages that inflect nouns and adjectives.
type RandomAgreement struct {
	rand entity.Rand
}

func NewRandomAgreement(r entity.Rand) *RandomAgreement {
	if r == nil {
		r = entity.DefaultRand
	}

	return &RandomAgreement{rand: r}
}

func (a *RandomAgreement) Resolve(_ context.Context, lang entity.Language, _ entity.Theme) (entity.GrammaticalNumber, entity.GrammaticalGender, error) {
	if lang != entity.LanguagePolish {
		return entity.NumberNone, entity.GenderNone, nil
	}

	return numbers[a.rand.IntN(len(numbers))], genders[a.rand.IntN(len(genders))], nil
}
