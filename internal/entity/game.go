package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	// LocalType - both marks are played by humans through the same client.
	LocalType = "local"
	// WithBotType - white is played by the built-in bot, black by the human.
	WithBotType = "bot"
)

var (
	ErrUnknownGameStatus  = errors.New("unknown game status")
	ErrUnknownGameType    = errors.New("unknown game type")
	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrModeNotSelected    = errors.New("game mode is not selected")
)

// Game is one session: a board plus turn, phase and outcome state. The board
// is replaced wholesale on every restart, never patched in place.
type Game struct {
	ID      string    `json:"id"`
	Board   *Board    `json:"board"`
	Winner  string    `json:"winner"`
	Status  string    `json:"status"`
	Turn    string    `json:"player_turn"`
	Players []*Player `json:"players,omitempty"`
	Type    string    `json:"type,omitempty"`
}

// NewGame - returns a game waiting for mode selection, with an all-empty board.
func NewGame(id string, boardSize int) (*Game, error) {
	board, err := NewBoard(boardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return &Game{
		ID:     id,
		Board:  board,
		Status: StatusWaiting,
	}, nil
}

// Start - selects the game mode and begins play. Black always opens.
func (that *Game) Start(gameType string) error {
	if !that.IsWaiting() {
		return fmt.Errorf("%w: %s", ErrGameAlreadyStarted, that.Status)
	}

	if gameType != LocalType && gameType != WithBotType {
		return fmt.Errorf("%w: %s", ErrUnknownGameType, gameType)
	}

	that.Type = gameType
	that.Status = StatusOngoing
	that.Turn = PlayerBlack
	that.Winner = EmptyCell

	return nil
}

// Restart - begins a fresh game in the same mode on a brand-new board.
func (that *Game) Restart() error {
	if that.Type == EmptyCell {
		return ErrModeNotSelected
	}

	board, err := NewBoard(that.Board.Size)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	that.Board = board
	that.Status = StatusOngoing
	that.Turn = PlayerBlack
	that.Winner = EmptyCell

	return nil
}

// ResetToSelection - discards the current game and returns to mode selection.
func (that *Game) ResetToSelection() error {
	board, err := NewBoard(that.Board.Size)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	that.Board = board
	that.Status = StatusWaiting
	that.Turn = EmptyCell
	that.Winner = EmptyCell
	that.Type = EmptyCell

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// ConfirmOngoingState - returns the phase error matching the current status,
// or nil when moves may be played.
func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// BotPlayer - returns the bot seat, or nil when the game has none.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}
