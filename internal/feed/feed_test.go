package feed

import (
	"testing"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscribers(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe()
	defer cancelA()
	b, cancelB := hub.Subscribe()
	defer cancelB()
	require.Equal(t, 2, hub.Subscribers())

	hub.Publish(Event{ID: 1, Text: "hello"})

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, uint(1), ev.ID)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered")
		}
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // повторный вызов безопасен

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, hub.Subscribers())

	hub.Publish(Event{ID: 2}) // некому доставлять, не паникует
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(Event{ID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestNewEvent(t *testing.T) {
	now := time.Now()
	ev := NewEvent(&domain.Post{
		ID:      3,
		Text:    "text",
		PubDate: now,
		Author:  &domain.User{Username: "leo"},
		Group:   &domain.Group{Slug: "cats"},
	})
	assert.Equal(t, Event{ID: 3, Text: "text", Author: "leo", Group: "cats", PubDate: now}, ev)

	assert.Empty(t, NewEvent(&domain.Post{ID: 4}).Group)
}
