package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	EmptyCell = ""

	PlayerBlack = "B"
	PlayerWhite = "W"
	PlayerTie   = "-"
)

// MinBoardSize is the smallest board that can ever hold a five-stone line.
const MinBoardSize = 5

// Position is a zero-indexed board intersection, row-major.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is a unit step between neighbouring intersections.
type Direction struct {
	DRow int `json:"d_row"`
	DCol int `json:"d_col"`
}

// Inverted - returns the step pointing the opposite way.
func (that Direction) Inverted() Direction {
	return Direction{DRow: -that.DRow, DCol: -that.DCol}
}

// Board is a fixed-size square grid of cell marks. It only stores cells and
// answers bounds questions; whose turn it is and whether a move is legal are
// decided elsewhere.
type Board struct {
	Size  int        `json:"size"`
	Cells [][]string `json:"cells"`
}

// NewBoard - returns an all-empty size×size board.
func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: %d is less than %d", apperror.ErrInvalidDimension, size, MinBoardSize)
	}

	cells := make([][]string, size)
	for row := range cells {
		cells[row] = make([]string, size)
	}

	return &Board{Size: size, Cells: cells}, nil
}

// Contains - reports whether pos lies on the board.
func (that *Board) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < that.Size && pos.Col >= 0 && pos.Col < that.Size
}

// At - returns the cell mark at pos.
func (that *Board) At(pos Position) (string, error) {
	if !that.Contains(pos) {
		return EmptyCell, fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, pos.Row, pos.Col)
	}

	return that.Cells[pos.Row][pos.Col], nil
}

// Set - overwrites the cell mark at pos. Occupancy conflicts are not checked
// here; that is the referee's job.
func (that *Board) Set(pos Position, cell string) error {
	if !that.Contains(pos) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, pos.Row, pos.Col)
	}

	that.Cells[pos.Row][pos.Col] = cell

	return nil
}

// IsFull - reports whether no empty cell remains.
func (that *Board) IsFull() bool {
	for _, row := range that.Cells {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// ScanLine - returns the cells starting at origin+dir and stepping by dir up
// to maxSteps times, stopping at the first position off the board. It does
// not interpret the marks.
func (that *Board) ScanLine(origin Position, dir Direction, maxSteps int) []string {
	line := make([]string, 0, maxSteps)

	pos := origin
	for step := 0; step < maxSteps; step++ {
		pos = Position{Row: pos.Row + dir.DRow, Col: pos.Col + dir.DCol}
		if !that.Contains(pos) {
			break
		}
		line = append(line, that.Cells[pos.Row][pos.Col])
	}

	return line
}
