package apperror

import "errors"

var (
	ErrInvalidDimension = errors.New("board dimension is too small")
	ErrOutOfBounds      = errors.New("position is out of bounds")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNoActiveGames    = errors.New("no active games")
)
