package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

func TestBus_Publish(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()

	var calls []string
	bus.SubscribeAll(func(_ context.Context, e entity.Event) error {
		calls = append(calls, "all:"+e.EventName())
		return nil
	})
	bus.Subscribe(entity.EventLinkCreated, func(_ context.Context, e entity.Event) error {
		calls = append(calls, "created")
		return nil
	})
	bus.Subscribe(entity.EventLinkVisited, func(_ context.Context, e entity.Event) error {
		calls = append(calls, "visited")
		return nil
	})

	err := bus.Publish(ctx, entity.LinkCreated{EventID: uuid.NewString(), OccurredAt: time.Now()})
	assert.NoError(t, err)
	assert.Equal(t, []string{"all:link.created", "created"}, calls)

	calls = nil
	err = bus.Publish(ctx, entity.LinkVisited{EventID: uuid.NewString(), OccurredAt: time.Now()})
	assert.NoError(t, err)
	assert.Equal(t, []string{"all:link.visited", "visited"}, calls)
}

func TestBus_Publish_Errors(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()

	errFirst := errors.New("first")
	errSecond := errors.New("second")

	var called int
	bus.SubscribeAll(func(context.Context, entity.Event) error {
		called++
		return errFirst
	})
	bus.SubscribeAll(func(context.Context, entity.Event) error {
		called++
		return nil
	})
	bus.Subscribe(entity.EventLinkVisited, func(context.Context, entity.Event) error {
		called++
		return errSecond
	})

	err := bus.Publish(ctx, entity.LinkVisited{})
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
	assert.Equal(t, 3, called)
}

func TestBus_Publish_NoSubscribers(t *testing.T) {
	assert.NoError(t, NewBus().Publish(context.Background(), entity.LinkCreated{}))
}
