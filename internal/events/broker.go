package events

import (
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	TypeBoardChanged  = "board_changed"
	TypeTurnChanged   = "turn_changed"
	TypeGameConcluded = "game_concluded"
	TypePhaseChanged  = "phase_changed"
)

const subscriberBufferSize = 32

// Event is one engine-side change the presentation layer may want to redraw.
type Event struct {
	GameID   string           `json:"game_id"`
	Type     string           `json:"type"`
	Position *entity.Position `json:"position,omitempty"`
	Cell     string           `json:"cell,omitempty"`
	Turn     string           `json:"turn,omitempty"`
	Winner   string           `json:"winner,omitempty"`
	Phase    string           `json:"phase,omitempty"`
}

// Subscription is one listener's handle on a game's event stream.
type Subscription struct {
	broker    *Broker
	gameID    string
	ch        chan Event
	closeOnce sync.Once
}

// Events - the stream of published events for the subscribed game.
func (that *Subscription) Events() <-chan Event {
	return that.ch
}

// Close - detaches the subscription and closes its channel. Safe to call twice.
func (that *Subscription) Close() {
	that.closeOnce.Do(func() {
		that.broker.remove(that)
		close(that.ch)
	})
}

// Broker fans engine events out to per-game subscribers. Publishing never
// blocks: a subscriber that cannot keep up misses events rather than stalling
// the engine.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe - registers a listener for one game's events.
func (that *Broker) Subscribe(gameID string) *Subscription {
	sub := &Subscription{
		broker: that,
		gameID: gameID,
		ch:     make(chan Event, subscriberBufferSize),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.subs[gameID] == nil {
		that.subs[gameID] = make(map[*Subscription]struct{})
	}
	that.subs[gameID][sub] = struct{}{}

	return sub
}

// Publish - delivers the event to every current subscriber of its game.
func (that *Broker) Publish(event Event) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.subs[event.GameID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (that *Broker) remove(sub *Subscription) {
	that.mu.Lock()
	defer that.mu.Unlock()

	listeners, ok := that.subs[sub.gameID]
	if !ok {
		return
	}

	delete(listeners, sub)
	if len(listeners) == 0 {
		delete(that.subs, sub.gameID)
	}
}
