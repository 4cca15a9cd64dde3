package visit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

type MockLogRepository struct {
	mock.Mock
}

func (r *MockLogRepository) Save(ctx context.Context, entry *entity.VisitLogEntry) error {
	args := r.Called(ctx, entry)
	return args.Error(0)
}

func TestLogSink_Record(t *testing.T) {
	t.Run("writes after caller context is cancelled", func(t *testing.T) {
		repo := new(MockLogRepository)
		sink := NewLogSink(repo, time.Second, nil)

		entry := entity.VisitInfo{UserAgent: "curl/8.0"}.ToLogEntry("link1", time.Now())

		repo.On("Save", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		}), entry).Once().Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sink.Record(ctx, entry)
		sink.Close()

		repo.AssertExpectations(t)
	})

	t.Run("failure does not propagate", func(t *testing.T) {
		repo := new(MockLogRepository)
		sink := NewLogSink(repo, 0, nil)

		entry := entity.VisitInfo{}.ToLogEntry("link1", time.Now())
		repo.On("Save", mock.Anything, entry).Once().Return(errors.New("db down"))

		sink.Record(context.Background(), entry)
		sink.Close()

		repo.AssertExpectations(t)
		assert.Nil(t, entry.IPAddress)
		assert.Nil(t, entry.UserAgent)
		assert.Nil(t, entry.Referrer)
	})
}
