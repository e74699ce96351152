package events

import (
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishSubscribe(t *testing.T) {
	t.Run("Delivers events to a game's subscriber", func(t *testing.T) {
		// Given: a subscriber on game 123
		broker := NewBroker()
		sub := broker.Subscribe("123")
		defer sub.Close()

		// When: publishing a board change for that game
		pos := entity.Position{Row: 7, Col: 7}
		broker.Publish(Event{
			GameID:   "123",
			Type:     TypeBoardChanged,
			Position: &pos,
			Cell:     entity.PlayerBlack,
		})

		// Then: the subscriber receives it
		event := <-sub.Events()
		assert.Equal(t, TypeBoardChanged, event.Type)
		require.NotNil(t, event.Position)
		assert.Equal(t, 7, event.Position.Row)
		assert.Equal(t, entity.PlayerBlack, event.Cell)
	})

	t.Run("Does not deliver events from other games", func(t *testing.T) {
		broker := NewBroker()
		sub := broker.Subscribe("123")
		defer sub.Close()

		broker.Publish(Event{GameID: "456", Type: TypeTurnChanged, Turn: entity.PlayerWhite})

		select {
		case event := <-sub.Events():
			t.Fatalf("unexpected event: %+v", event)
		default:
		}
	})

	t.Run("Fans out to every subscriber of the game", func(t *testing.T) {
		broker := NewBroker()
		first := broker.Subscribe("123")
		second := broker.Subscribe("123")
		defer first.Close()
		defer second.Close()

		broker.Publish(Event{GameID: "123", Type: TypePhaseChanged, Phase: entity.StatusOngoing})

		assert.Equal(t, TypePhaseChanged, (<-first.Events()).Type)
		assert.Equal(t, TypePhaseChanged, (<-second.Events()).Type)
	})
}

func TestBroker_SlowSubscriber(t *testing.T) {
	t.Run("Publishing never blocks on a full subscriber buffer", func(t *testing.T) {
		// Given: a subscriber that never drains its channel
		broker := NewBroker()
		sub := broker.Subscribe("123")
		defer sub.Close()

		// When: publishing far more events than the buffer holds
		for i := 0; i < subscriberBufferSize*3; i++ {
			broker.Publish(Event{GameID: "123", Type: TypeTurnChanged})
		}

		// Then: the buffered events are there and the excess was dropped
		assert.Len(t, sub.Events(), subscriberBufferSize)
	})
}

func TestSubscription_Close(t *testing.T) {
	t.Run("Close detaches the subscriber and is safe to repeat", func(t *testing.T) {
		broker := NewBroker()
		sub := broker.Subscribe("123")

		sub.Close()
		sub.Close()

		// Then: the channel is closed and later publishes go nowhere
		_, open := <-sub.Events()
		assert.False(t, open)

		broker.Publish(Event{GameID: "123", Type: TypeTurnChanged})
	})
}
