package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the body exchanged with clients for every game action.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameView      `json:"game,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// TurnPayload carries one submitted move.
type TurnPayload struct {
	Player struct {
		ID string `json:"id"`
	} `json:"player"`
	Row int `json:"row"`
	Col int `json:"col"`
}

// StartPayload carries the selected game mode.
type StartPayload struct {
	Player struct {
		ID string `json:"id"`
	} `json:"player"`
	Mode string `json:"mode"`
}

// GameView is the client-facing snapshot of a game.
type GameView struct {
	ID     string     `json:"id"`
	Size   int        `json:"size"`
	Board  [][]string `json:"board"`
	Turn   string     `json:"turn,omitempty"`
	Winner string     `json:"winner,omitempty"`
	Status string     `json:"status"`
	Type   string     `json:"type,omitempty"`
}

// NewGameView - maps a game session onto its client snapshot.
func NewGameView(game *entity.Game) *GameView {
	return &GameView{
		ID:     game.ID,
		Size:   game.Board.Size,
		Board:  game.Board.Cells,
		Turn:   game.Turn,
		Winner: game.Winner,
		Status: game.Status,
		Type:   game.Type,
	}
}

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}
