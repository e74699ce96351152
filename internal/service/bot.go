package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) (entity.Position, error)
}

// strategy proposes a move or reports no decision; the chain below tries each
// tier in order and plays the first decision.
type strategy func(board *entity.Board, botMark, opponentMark string) (entity.Position, bool)

type botService struct {
	rng *rand.Rand
}

// NewBotService - builds the bot. A non-zero seed makes its tie-breaking
// reproducible; seed 0 uses the wall clock.
func NewBotService(seed int64) BotService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &botService{
		rng: rand.New(rand.NewSource(seed)), //nolint: gosec // tie-breaking only, not security sensitive
	}
}

// MakeTurn - picks a position for the bot and plays it through the same move
// path humans use. Priority: win now, block the opponent's win, extend near
// existing stones, otherwise any empty cell.
func (that *botService) MakeTurn(game *entity.Game) (entity.Position, error) {
	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return entity.Position{}, ErrBotNotFound
	}

	opponentMark := gomoku.ToggleMark(botPlayer.Mark)

	strategies := []strategy{
		that.winningMove,
		that.blockingMove,
		that.adjacentMove,
		that.randomMove,
	}

	for _, pick := range strategies {
		pos, ok := pick(game.Board, botPlayer.Mark, opponentMark)
		if !ok {
			continue
		}

		if err := gomoku.MakeTurn(game, botPlayer.Mark, pos); err != nil {
			return entity.Position{}, fmt.Errorf("bot failed to make turn: %w", err)
		}

		return pos, nil
	}

	return entity.Position{}, ErrNoAvailableMoves
}

// winningMove - first empty cell (row-major) that completes five for the bot.
func (that *botService) winningMove(board *entity.Board, botMark, _ string) (entity.Position, bool) {
	return findImmediateWin(board, botMark)
}

// blockingMove - first empty cell (row-major) the opponent would win on.
func (that *botService) blockingMove(board *entity.Board, _, opponentMark string) (entity.Position, bool) {
	return findImmediateWin(board, opponentMark)
}

// adjacentMove - a uniformly random empty cell touching an occupied one.
func (that *botService) adjacentMove(board *entity.Board, _, _ string) (entity.Position, bool) {
	candidates := make([]entity.Position, 0, board.Size*board.Size)
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			pos := entity.Position{Row: row, Col: col}
			if board.Cells[row][col] == entity.EmptyCell && hasOccupiedNeighbor(board, pos) {
				candidates = append(candidates, pos)
			}
		}
	}

	if len(candidates) == 0 {
		return entity.Position{}, false
	}

	return candidates[that.rng.Intn(len(candidates))], true
}

// randomMove - a uniformly random empty cell; covers the empty board.
func (that *botService) randomMove(board *entity.Board, _, _ string) (entity.Position, bool) {
	candidates := make([]entity.Position, 0, board.Size*board.Size)
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			if board.Cells[row][col] == entity.EmptyCell {
				candidates = append(candidates, entity.Position{Row: row, Col: col})
			}
		}
	}

	if len(candidates) == 0 {
		return entity.Position{}, false
	}

	return candidates[that.rng.Intn(len(candidates))], true
}

// findImmediateWin - scans empty cells in row-major order, trying mark at each
// and undoing it, until a placement wins on the spot.
func findImmediateWin(board *entity.Board, mark string) (entity.Position, bool) {
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			if board.Cells[row][col] != entity.EmptyCell {
				continue
			}

			pos := entity.Position{Row: row, Col: col}
			board.Cells[row][col] = mark
			wins := gomoku.IsWinningPlacement(board, pos, mark)
			board.Cells[row][col] = entity.EmptyCell

			if wins {
				return pos, true
			}
		}
	}

	return entity.Position{}, false
}

func hasOccupiedNeighbor(board *entity.Board, pos entity.Position) bool {
	for dRow := -1; dRow <= 1; dRow++ {
		for dCol := -1; dCol <= 1; dCol++ {
			if dRow == 0 && dCol == 0 {
				continue
			}

			neighbor := entity.Position{Row: pos.Row + dRow, Col: pos.Col + dCol}
			if !board.Contains(neighbor) {
				continue
			}

			if board.Cells[neighbor.Row][neighbor.Col] != entity.EmptyCell {
				return true
			}
		}
	}

	return false
}
