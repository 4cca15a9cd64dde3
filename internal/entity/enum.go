package entity

import "fmt"

// Language is a language phrases can be generated in.
type Language uint8

const (
	LanguageEnglish Language = iota + 1
	LanguagePolish
)

var languageCodes = map[Language]string{
	LanguageEnglish: "en",
	LanguagePolish:  "pl",
}

// Theme is a vocabulary theme. The zero value is the default theme.
type Theme uint8

const (
	ThemeDefault Theme = iota
	ThemeAnimals
	ThemePoliticians
)

var themeCodes = map[Theme]string{
	ThemeDefault:     "default",
	ThemeAnimals:     "animals",
	ThemePoliticians: "politicians",
}

// Format is the letter case a phrase is rendered in.
type Format uint8

const (
	FormatKebabCase Format = iota + 1
	FormatPascalCase
)

var formatCodes = map[Format]string{
	FormatKebabCase:  "kebab-case",
	FormatPascalCase: "PascalCase",
}

// Offensiveness tells whether a vocabulary contains offensive words.
type Offensiveness uint8

const (
	NonOffensive Offensiveness = iota
	Offensive
)

var offensivenessCodes = map[Offensiveness]string{
	NonOffensive: "non-offensive",
	Offensive:    "offensive",
}

// GrammaticalNumber is the grammatical number of a vocabulary.
type GrammaticalNumber uint8

const (
	NumberNone GrammaticalNumber = iota
	NumberSingular
	NumberPlural
)

var numberCodes = map[GrammaticalNumber]string{
	NumberNone:     "none",
	NumberSingular: "singular",
	NumberPlural:   "plural",
}

// GrammaticalGender is the grammatical gender of a vocabulary.
type GrammaticalGender uint8

const (
	GenderNone GrammaticalGender = iota
	GenderMasculine
	GenderFeminine
	GenderNeuter
)

var genderCodes = map[GrammaticalGender]string{
	GenderNone:      "none",
	GenderMasculine: "masculine",
	GenderFeminine:  "feminine",
	GenderNeuter:    "neuter",
}

// PartOfSpeech is the part of speech of a vocabulary.
type PartOfSpeech uint8

const (
	PartOfSpeechNoun PartOfSpeech = iota + 1
	PartOfSpeechAdjective
	PartOfSpeechAdverb
)

var partOfSpeechCodes = map[PartOfSpeech]string{
	PartOfSpeechNoun:      "noun",
	PartOfSpeechAdjective: "adjective",
	PartOfSpeechAdverb:    "adverb",
}

func fromValue[T comparable](codes map[T]string, v string) (T, bool) {
	for k, code := range codes {
		if code == v {
			return k, true
		}
	}

	var zero T
	return zero, false
}

func unmarshalCode[T comparable](codes map[T]string, kind string, text []byte, dst *T) error {
	v, ok := fromValue(codes, string(text))
	if !ok {
		return fmt.Errorf("unknown %s %q", kind, text)
	}

	*dst = v
	return nil
}

// LanguageFromValue looks up a language by its code.
func LanguageFromValue(v string) (Language, bool) { return fromValue(languageCodes, v) }

func (l Language) String() string { return languageCodes[l] }

func (l Language) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Language) UnmarshalText(text []byte) error {
	return unmarshalCode(languageCodes, "language", text, l)
}

// ThemeFromValue looks up a theme by its code.
func ThemeFromValue(v string) (Theme, bool) { return fromValue(themeCodes, v) }

func (t Theme) String() string { return themeCodes[t] }

func (t Theme) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Theme) UnmarshalText(text []byte) error {
	return unmarshalCode(themeCodes, "theme", text, t)
}

// FormatFromValue looks up a format by its name.
func FormatFromValue(v string) (Format, bool) { return fromValue(formatCodes, v) }

func (f Format) String() string { return formatCodes[f] }

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Format) UnmarshalText(text []byte) error {
	return unmarshalCode(formatCodes, "format", text, f)
}

func OffensivenessFromValue(v string) (Offensiveness, bool) { return fromValue(offensivenessCodes, v) }

func (o Offensiveness) String() string { return offensivenessCodes[o] }

func GrammaticalNumberFromValue(v string) (GrammaticalNumber, bool) { return fromValue(numberCodes, v) }

func (n GrammaticalNumber) String() string { return numberCodes[n] }

func GrammaticalGenderFromValue(v string) (GrammaticalGender, bool) { return fromValue(genderCodes, v) }

func (g GrammaticalGender) String() string { return genderCodes[g] }

func PartOfSpeechFromValue(v string) (PartOfSpeech, bool) { return fromValue(partOfSpeechCodes, v) }

func (p PartOfSpeech) String() string { return partOfSpeechCodes[p] }
