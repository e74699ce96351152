package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// WinLength is the run of same-mark stones that ends the game.
const WinLength = 5

// Axes are the four undirected lines a winning run can lie on: horizontal,
// vertical and both diagonals.
var Axes = [4]entity.Direction{
	{DRow: 0, DCol: 1},
	{DRow: 1, DCol: 0},
	{DRow: 1, DCol: 1},
	{DRow: 1, DCol: -1},
}

// MakeTurn - validates and applies one move for the given mark. On a winning
// move the game is concluded with that mark as winner and the turn does not
// switch; on a board-filling move without a win the game concludes as a tie;
// otherwise the turn passes to the other mark. A rejected move changes nothing.
func MakeTurn(game *entity.Game, mark string, pos entity.Position) error {
	if err := game.ConfirmOngoingState(); err != nil {
		return err
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	cell, err := game.Board.At(pos)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	if cell != entity.EmptyCell {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellOccupied, pos.Row, pos.Col)
	}

	if err = game.Board.Set(pos, mark); err != nil {
		return fmt.Errorf("failed to place mark: %w", err)
	}

	updateGameStatus(game, mark, pos)

	return nil
}

// updateGameStatus - concludes or advances the game after a placed stone.
// Win is always checked before the tie condition.
func updateGameStatus(game *entity.Game, mark string, pos entity.Position) {
	switch {
	case IsWinningPlacement(game.Board, pos, mark):
		game.Winner = mark
		game.Status = entity.StatusFinished
		game.Turn = entity.EmptyCell
	case game.Board.IsFull():
		game.Winner = entity.PlayerTie
		game.Status = entity.StatusFinished
		game.Turn = entity.EmptyCell
	default:
		game.Turn = ToggleMark(mark)
	}
}

// IsWinningPlacement - reports whether the stone just placed at pos completes
// a run of five or more. Only the four lines through pos are examined; a new
// win can only appear through the last placed stone, so a full-board scan is
// never needed.
func IsWinningPlacement(board *entity.Board, pos entity.Position, mark string) bool {
	for _, axis := range Axes {
		count := 1
		count += countRun(board, pos, axis, mark)
		count += countRun(board, pos, axis.Inverted(), mark)

		if count >= WinLength {
			return true
		}
	}

	return false
}

// countRun - counts consecutive cells holding mark, walking from pos in dir,
// stopping at the first mismatch or board edge.
func countRun(board *entity.Board, pos entity.Position, dir entity.Direction, mark string) int {
	run := 0
	for _, cell := range board.ScanLine(pos, dir, WinLength-1) {
		if cell != mark {
			break
		}
		run++
	}

	return run
}

// ToggleMark - returns the mark of the other player.
func ToggleMark(currentMark string) string {
	if currentMark == entity.PlayerBlack {
		return entity.PlayerWhite
	}
	return entity.PlayerBlack
}
