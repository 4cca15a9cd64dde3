package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

type MockVocabularyStore struct {
	mock.Mock
}

func (m *MockVocabularyStore) GetNouns(ctx context.Context, lang entity.Language, off entity.Offensiveness, number entity.GrammaticalNumber, gender entity.GrammaticalGender, theme entity.Theme) (*entity.Vocabulary, error) {
	args := m.Called(ctx, lang, off, number, gender, theme)
	v, _ := args.Get(0).(*entity.Vocabulary)
	return v, args.Error(1)
}

func (m *MockVocabularyStore) GetAdjectives(ctx context.Context, lang entity.Language, off entity.Offensiveness, number entity.GrammaticalNumber, gender entity.GrammaticalGender) (*entity.Vocabulary, error) {
	args := m.Called(ctx, lang, off, number, gender)
	v, _ := args.Get(0).(*entity.Vocabulary)
	return v, args.Error(1)
}

func (m *MockVocabularyStore) GetAdverbs(ctx context.Context, lang entity.Language, off entity.Offensiveness) (*entity.Vocabulary, error) {
	args := m.Called(ctx, lang, off)
	v, _ := args.Get(0).(*entity.Vocabulary)
	return v, args.Error(1)
}

type MockAgreementService struct {
	mock.Mock
}

func (m *MockAgreementService) Resolve(ctx context.Context, lang entity.Language, theme entity.Theme) (entity.GrammaticalNumber, entity.GrammaticalGender, error) {
	args := m.Called(ctx, lang, theme)
	return args.Get(0).(entity.GrammaticalNumber), args.Get(1).(entity.GrammaticalGender), args.Error(2)
}

type MockPhraseGenerator struct {
	mock.Mock
}

func (m *MockPhraseGenerator) Generate(ctx context.Context, format entity.Format, lang entity.Language, theme entity.Theme) (entity.Phrase, error) {
	args := m.Called(ctx, format, lang, theme)
	return args.Get(0).(entity.Phrase), args.Error(1)
}

type MockPhraseChecker struct {
	mock.Mock
}

func (m *MockPhraseChecker) ExistsByPhrase(ctx context.Context, phrase entity.Phrase) (bool, error) {
	args := m.Called(ctx, phrase)
	return args.Bool(0), args.Error(1)
}

type MockPhraseAllocator struct {
	mock.Mock
}

func (m *MockPhraseAllocator) Allocate(ctx context.Context, format entity.Format, lang entity.Language, theme entity.Theme, claim ClaimFunc) (entity.Phrase, error) {
	args := m.Called(ctx, format, lang, theme, claim)
	return args.Get(0).(entity.Phrase), args.Error(1)
}

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Save(ctx context.Context, link *entity.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) GetByPhrase(ctx context.Context, phrase entity.Phrase) (*entity.Link, error) {
	args := m.Called(ctx, phrase)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

type MockVisitSummaryRepository struct {
	mock.Mock
}

func (m *MockVisitSummaryRepository) GetTotalVisits(ctx context.Context, linkID string) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRedirectCache struct {
	mock.Mock
}

func (m *MockRedirectCache) Get(ctx context.Context, phrase entity.Phrase) (*entity.CachedLink, bool, error) {
	args := m.Called(ctx, phrase)
	link, _ := args.Get(0).(*entity.CachedLink)
	return link, args.Bool(1), args.Error(2)
}

func (m *MockRedirectCache) Set(ctx context.Context, phrase entity.Phrase, link *entity.CachedLink) error {
	args := m.Called(ctx, phrase, link)
	return args.Error(0)
}

type MockVisitCounter struct {
	mock.Mock
}

func (m *MockVisitCounter) Record(linkID string) {
	m.Called(linkID)
}

type MockVisitLogSink struct {
	mock.Mock
}

func (m *MockVisitLogSink) Record(ctx context.Context, entry *entity.VisitLogEntry) {
	m.Called(ctx, entry)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
