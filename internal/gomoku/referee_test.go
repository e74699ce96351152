package gomoku

import (
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOngoingGame(t *testing.T, size int) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("123", size)
	require.NoError(t, err)
	require.NoError(t, game.Start(entity.LocalType))

	return game
}

func TestMakeTurn_WinScenario(t *testing.T) {
	t.Run("Black wins on the move completing five in a row", func(t *testing.T) {
		// Given: an ongoing 15x15 game
		game := newOngoingGame(t, 15)

		// When: black builds a horizontal row on row 7 while white plays
		// elsewhere; the fifth black stone lands at (7,11)
		moves := []struct {
			mark string
			pos  entity.Position
		}{
			{entity.PlayerBlack, entity.Position{Row: 7, Col: 7}},
			{entity.PlayerWhite, entity.Position{Row: 0, Col: 0}},
			{entity.PlayerBlack, entity.Position{Row: 7, Col: 8}},
			{entity.PlayerWhite, entity.Position{Row: 0, Col: 1}},
			{entity.PlayerBlack, entity.Position{Row: 7, Col: 9}},
			{entity.PlayerWhite, entity.Position{Row: 0, Col: 2}},
			{entity.PlayerBlack, entity.Position{Row: 7, Col: 10}},
			{entity.PlayerWhite, entity.Position{Row: 0, Col: 3}},
		}

		for _, move := range moves {
			require.NoError(t, MakeTurn(game, move.mark, move.pos))
			// And: the game must not conclude before the line is complete
			require.Equal(t, entity.StatusOngoing, game.Status)
		}

		require.NoError(t, MakeTurn(game, entity.PlayerBlack, entity.Position{Row: 7, Col: 11}))

		// Then: black wins, the game concludes and the turn does not switch
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.PlayerBlack, game.Winner)
		assert.Equal(t, entity.EmptyCell, game.Turn)
	})

	t.Run("A move after the game concluded is rejected without mutation", func(t *testing.T) {
		// Given: a concluded game
		game := newOngoingGame(t, 15)
		game.Status = entity.StatusFinished
		game.Winner = entity.PlayerBlack
		game.Turn = entity.EmptyCell

		// When: submitting another move
		err := MakeTurn(game, entity.PlayerWhite, entity.Position{Row: 3, Col: 3})

		// Then: the move is rejected and the board stays unchanged
		require.ErrorIs(t, err, apperror.ErrGameFinished)

		cell, err := game.Board.At(entity.Position{Row: 3, Col: 3})
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, cell)
	})
}

func TestMakeTurn_Rejections(t *testing.T) {
	t.Run("Rejects a move before mode selection", func(t *testing.T) {
		game, err := entity.NewGame("123", 15)
		require.NoError(t, err)

		err = MakeTurn(game, entity.PlayerBlack, entity.Position{Row: 7, Col: 7})

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		// Given: an ongoing game with black to move
		game := newOngoingGame(t, 15)

		// When: white tries to move
		err := MakeTurn(game, entity.PlayerWhite, entity.Position{Row: 7, Col: 7})

		// Then: the move is rejected and black is still to move
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.PlayerBlack, game.Turn)
	})

	t.Run("Rejects an out-of-bounds move without mutation", func(t *testing.T) {
		game := newOngoingGame(t, 15)

		err := MakeTurn(game, entity.PlayerBlack, entity.Position{Row: 15, Col: 0})

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Equal(t, entity.PlayerBlack, game.Turn)
	})

	t.Run("Rejects a move onto an occupied cell without mutation or turn change", func(t *testing.T) {
		// Given: a black stone at (7,7) and white to move
		game := newOngoingGame(t, 15)
		pos := entity.Position{Row: 7, Col: 7}
		require.NoError(t, MakeTurn(game, entity.PlayerBlack, pos))

		// When: white plays the same cell
		err := MakeTurn(game, entity.PlayerWhite, pos)

		// Then: the cell keeps its mark and the turn does not advance
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		cell, err := game.Board.At(pos)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerBlack, cell)
		assert.Equal(t, entity.PlayerWhite, game.Turn)
	})
}

func TestMakeTurn_TurnAlternation(t *testing.T) {
	t.Run("Turn strictly alternates after every successful non-concluding move", func(t *testing.T) {
		game := newOngoingGame(t, 15)

		moves := []entity.Position{
			{Row: 1, Col: 1}, {Row: 2, Col: 2}, {Row: 3, Col: 3}, {Row: 4, Col: 4},
		}

		expected := entity.PlayerBlack
		for _, pos := range moves {
			require.Equal(t, expected, game.Turn)
			require.NoError(t, MakeTurn(game, expected, pos))
			expected = ToggleMark(expected)
			assert.Equal(t, expected, game.Turn)
		}
	})
}

func TestIsWinningPlacement(t *testing.T) {
	fillLine := func(t *testing.T, board *entity.Board, start entity.Position, dir entity.Direction, count int, mark string) {
		t.Helper()
		pos := start
		for i := 0; i < count; i++ {
			require.NoError(t, board.Set(pos, mark))
			pos = entity.Position{Row: pos.Row + dir.DRow, Col: pos.Col + dir.DCol}
		}
	}

	t.Run("Detects a vertical five", func(t *testing.T) {
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 3, Col: 5}, entity.Direction{DRow: 1, DCol: 0}, 5, entity.PlayerWhite)

		assert.True(t, IsWinningPlacement(board, entity.Position{Row: 5, Col: 5}, entity.PlayerWhite))
	})

	t.Run("Detects a down-right diagonal five", func(t *testing.T) {
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 2, Col: 2}, entity.Direction{DRow: 1, DCol: 1}, 5, entity.PlayerBlack)

		assert.True(t, IsWinningPlacement(board, entity.Position{Row: 4, Col: 4}, entity.PlayerBlack))
	})

	t.Run("Detects a down-left diagonal five", func(t *testing.T) {
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 2, Col: 10}, entity.Direction{DRow: 1, DCol: -1}, 5, entity.PlayerBlack)

		assert.True(t, IsWinningPlacement(board, entity.Position{Row: 6, Col: 6}, entity.PlayerBlack))
	})

	t.Run("Counts both sides of the placed stone", func(t *testing.T) {
		// Given: two stones left and two stones right of the placed one
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 7, Col: 5}, entity.Direction{DRow: 0, DCol: 1}, 5, entity.PlayerBlack)

		// Then: the middle stone completes the line
		assert.True(t, IsWinningPlacement(board, entity.Position{Row: 7, Col: 7}, entity.PlayerBlack))
	})

	t.Run("An overline of six also wins", func(t *testing.T) {
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 7, Col: 4}, entity.Direction{DRow: 0, DCol: 1}, 6, entity.PlayerBlack)

		assert.True(t, IsWinningPlacement(board, entity.Position{Row: 7, Col: 6}, entity.PlayerBlack))
	})

	t.Run("Four in a row does not win", func(t *testing.T) {
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 7, Col: 7}, entity.Direction{DRow: 0, DCol: 1}, 4, entity.PlayerBlack)

		assert.False(t, IsWinningPlacement(board, entity.Position{Row: 7, Col: 7}, entity.PlayerBlack))
	})

	t.Run("A line broken by the opponent does not win", func(t *testing.T) {
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 7, Col: 5}, entity.Direction{DRow: 0, DCol: 1}, 2, entity.PlayerBlack)
		require.NoError(t, board.Set(entity.Position{Row: 7, Col: 7}, entity.PlayerWhite))
		fillLine(t, board, entity.Position{Row: 7, Col: 8}, entity.Direction{DRow: 0, DCol: 1}, 2, entity.PlayerBlack)

		assert.False(t, IsWinningPlacement(board, entity.Position{Row: 7, Col: 6}, entity.PlayerBlack))
	})

	t.Run("A line crossing the board edge stops there", func(t *testing.T) {
		// Given: four stones ending at the edge
		board, err := entity.NewBoard(15)
		require.NoError(t, err)
		fillLine(t, board, entity.Position{Row: 0, Col: 0}, entity.Direction{DRow: 0, DCol: 1}, 4, entity.PlayerBlack)

		assert.False(t, IsWinningPlacement(board, entity.Position{Row: 0, Col: 0}, entity.PlayerBlack))
	})
}

// drawPattern fills a 5x5 board with a full position containing no five-line.
var drawPattern = [5]string{
	"BBWWB",
	"WWBBW",
	"BBWWB",
	"WWBBW",
	"BBWWB",
}

func TestMakeTurn_Draw(t *testing.T) {
	t.Run("The final move on a full board without a win concludes as a tie", func(t *testing.T) {
		// Given: a 5x5 board full except (4,4), with no winning line anywhere
		game := newOngoingGame(t, 5)

		for row, line := range drawPattern {
			for col, mark := range line {
				if row == 4 && col == 4 {
					continue
				}
				require.NoError(t, game.Board.Set(entity.Position{Row: row, Col: col}, string(mark)))
			}
		}
		game.Turn = entity.PlayerBlack

		// When: black fills the last cell without completing a line
		require.NoError(t, MakeTurn(game, entity.PlayerBlack, entity.Position{Row: 4, Col: 4}))

		// Then: the game concludes as a tie
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.PlayerTie, game.Winner)
	})

	t.Run("Win is checked before the tie on a board-filling move", func(t *testing.T) {
		// Given: a 5x5 board full except (4,0), where black completes column 0
		pattern := [5]string{
			"BBWWB",
			"BWBBW",
			"BBWWB",
			"BWBBW",
			"_BWWB",
		}

		game := newOngoingGame(t, 5)
		for row, line := range pattern {
			for col, mark := range line {
				if mark == '_' {
					continue
				}
				require.NoError(t, game.Board.Set(entity.Position{Row: row, Col: col}, string(mark)))
			}
		}
		game.Turn = entity.PlayerBlack

		// When: black plays the final empty cell
		require.NoError(t, MakeTurn(game, entity.PlayerBlack, entity.Position{Row: 4, Col: 0}))

		// Then: black wins; the full board does not turn it into a tie
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.PlayerBlack, game.Winner)
	})

	t.Run("A draw is never reported while empty cells remain", func(t *testing.T) {
		game := newOngoingGame(t, 15)

		require.NoError(t, MakeTurn(game, entity.PlayerBlack, entity.Position{Row: 7, Col: 7}))

		assert.Equal(t, entity.StatusOngoing, game.Status)
		assert.Equal(t, entity.EmptyCell, game.Winner)
	})
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, entity.PlayerWhite, ToggleMark(entity.PlayerBlack))
	assert.Equal(t, entity.PlayerBlack, ToggleMark(entity.PlayerWhite))
}
