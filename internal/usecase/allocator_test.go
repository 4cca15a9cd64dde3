package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

func mustPhrase(t testing.TB, s string) entity.Phrase {
	t.Helper()

	p, err := entity.NewPhrase(s)
	require.NoError(t, err)
	return p
}

type PhraseAllocatorTestSuite struct {
	suite.Suite
	errUnknown    error
	generatorMock *MockPhraseGenerator
	linksMock     *MockPhraseChecker
	allocator     *PhraseAllocator
}

func (suite *PhraseAllocatorTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *PhraseAllocatorTestSuite) SetupSubTest() {
	suite.generatorMock = new(MockPhraseGenerator)
	suite.linksMock = new(MockPhraseChecker)
	suite.allocator = NewPhraseAllocator(suite.generatorMock, suite.linksMock, 10)
}

func (suite *PhraseAllocatorTestSuite) TearDownSubTest() {
	suite.generatorMock.AssertExpectations(suite.T())
	suite.linksMock.AssertExpectations(suite.T())
}

func (suite *PhraseAllocatorTestSuite) TestAllocate() {
	ctx := context.Background()
	format, lang, theme := entity.FormatKebabCase, entity.LanguageEnglish, entity.ThemeDefault
	taken := mustPhrase(suite.T(), "fast-blue-car")
	free := mustPhrase(suite.T(), "slow-red-bus")

	suite.Run("generation error", func() {
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Once().
			Return(entity.Phrase{}, entity.ErrVocabularyNotFound)

		phrase, err := suite.allocator.Allocate(ctx, format, lang, theme, nil)

		suite.ErrorIs(err, entity.ErrVocabularyNotFound)
		suite.True(phrase.IsZero())
	})

	suite.Run("exists check error", func() {
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Once().Return(taken, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, taken).Once().Return(false, suite.errUnknown)

		_, err := suite.allocator.Allocate(ctx, format, lang, theme, nil)

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("every phrase taken", func() {
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Times(10).Return(taken, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, taken).Times(10).Return(true, nil)

		phrase, err := suite.allocator.Allocate(ctx, format, lang, theme, nil)

		suite.ErrorIs(err, entity.ErrPhraseAlreadyInUse)
		suite.ErrorContains(err, "10 attempts")
		suite.True(phrase.IsZero())
		suite.generatorMock.AssertNumberOfCalls(suite.T(), "Generate", 10)
	})

	suite.Run("retries until free", func() {
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Twice().Return(taken, nil)
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Once().Return(free, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, taken).Twice().Return(true, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, free).Once().Return(false, nil)

		phrase, err := suite.allocator.Allocate(ctx, format, lang, theme, nil)

		suite.NoError(err)
		suite.Equal(free, phrase)
	})

	suite.Run("claim conflict is retried", func() {
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Once().Return(taken, nil)
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Once().Return(free, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, mock.Anything).Twice().Return(false, nil)

		var claimed []entity.Phrase
		phrase, err := suite.allocator.Allocate(ctx, format, lang, theme, func(_ context.Context, p entity.Phrase) error {
			claimed = append(claimed, p)
			if p == taken {
				return entity.ErrPhraseAlreadyInUse
			}
			return nil
		})

		suite.NoError(err)
		suite.Equal(free, phrase)
		suite.Equal([]entity.Phrase{taken, free}, claimed)
	})

	suite.Run("claim error", func() {
		suite.generatorMock.On("Generate", ctx, format, lang, theme).Once().Return(free, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, free).Once().Return(false, nil)

		_, err := suite.allocator.Allocate(ctx, format, lang, theme, func(context.Context, entity.Phrase) error {
			return suite.errUnknown
		})

		suite.ErrorIs(err, suite.errUnknown)
	})
}

func (suite *PhraseAllocatorTestSuite) TestAllocate_DefaultAttempts() {
	ctx := context.Background()
	taken := mustPhrase(suite.T(), "fast-blue-car")

	suite.Run("zero bound falls back to default", func() {
		allocator := NewPhraseAllocator(suite.generatorMock, suite.linksMock, 0)

		suite.generatorMock.On("Generate", ctx, entity.FormatPascalCase, entity.LanguagePolish, entity.ThemeAnimals).
			Times(defaultMaxAttempts).Return(taken, nil)
		suite.linksMock.On("ExistsByPhrase", ctx, taken).Times(defaultMaxAttempts).Return(true, nil)

		_, err := allocator.Allocate(ctx, entity.FormatPascalCase, entity.LanguagePolish, entity.ThemeAnimals, nil)

		suite.ErrorIs(err, entity.ErrPhraseAlreadyInUse)
	})
}

func TestPhraseAllocatorTestSuite(t *testing.T) {
	suite.Run(t, new(PhraseAllocatorTestSuite))
}
