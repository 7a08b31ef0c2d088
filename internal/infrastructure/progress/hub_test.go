package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodcat/backend/internal/domain"
)

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	t.Run("delivers events to every subscriber in order", func(t *testing.T) {
		hub := NewHub(nil)
		a := hub.Subscribe()
		b := hub.Subscribe()

		events := []domain.ProgressEvent{
			{Step: "Validando columnas", Progress: 10},
			{Step: "Validando valores", Progress: 20},
			{Step: "Importando", Progress: 40},
			{Step: "Completado", Progress: 100},
		}
		for _, e := range events {
			hub.Broadcast(e)
		}

		for _, ch := range []chan domain.ProgressEvent{a, b} {
			for i, want := range events {
				got := <-ch
				assert.Equal(t, want.Progress, got.Progress, "event %d", i)
				assert.Equal(t, want.Step, got.Step, "event %d", i)
			}
		}
	})

	t.Run("broadcast with no subscribers is a no-op", func(t *testing.T) {
		hub := NewHub(nil)
		hub.Broadcast(domain.ProgressEvent{Step: "Importando", Progress: 40})
		assert.Equal(t, 0, hub.SubscriberCount())
	})

	t.Run("unsubscribed listener receives nothing further", func(t *testing.T) {
		hub := NewHub(nil)
		ch := hub.Subscribe()
		hub.Unsubscribe(ch)

		hub.Broadcast(domain.ProgressEvent{Step: "Importando", Progress: 40})

		_, open := <-ch
		assert.False(t, open, "channel should be closed after Unsubscribe")
		assert.Equal(t, 0, hub.SubscriberCount())
	})

	t.Run("unsubscribing twice is safe", func(t *testing.T) {
		hub := NewHub(nil)
		ch := hub.Subscribe()
		hub.Unsubscribe(ch)
		hub.Unsubscribe(ch)
	})

	t.Run("slow subscriber drops events instead of blocking", func(t *testing.T) {
		hub := NewHub(nil)
		ch := hub.Subscribe()

		// Overflow the buffer; Broadcast must return regardless.
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Broadcast(domain.ProgressEvent{Step: "Importando", Progress: 40})
		}

		require.Len(t, ch, subscriberBuffer)
	})
}

func TestHub_ConcurrentAccess(t *testing.T) {
	// Subscribes, unsubscribes, and broadcasts racing must never panic.
	hub := NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ch := hub.Subscribe()
				hub.Broadcast(domain.ProgressEvent{Step: "Importando", Progress: 40})
				hub.Unsubscribe(ch)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SubscriberCount())
}
