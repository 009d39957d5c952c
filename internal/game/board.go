package game

import "fmt"

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// Board is a 3x3 board stored row-major: row = i/3, col = i%3.
type Board [BoardSize]PlayerMark

// Line is a triple of cell indices that wins when held by a single mark.
type Line [3]int

// Lines holds the rows, the columns and the two diagonals, in that order.
// Evaluate reports the first complete line in this order.
var Lines = [8]Line{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Valid reports whether m is a player mark (X or O).
func (m PlayerMark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// ParseMark converts a user supplied string into a player mark.
func ParseMark(s string) (PlayerMark, error) {
	m := PlayerMark(s)
	if !m.Valid() {
		return None, fmt.Errorf("unknown mark %q: %w", s, ErrInvalidInput)
	}
	return m, nil
}

// BoardFromSlice copies cells into a Board, rejecting anything that is not
// exactly nine empty, X or O cells.
func BoardFromSlice(cells []PlayerMark) (Board, error) {
	var b Board
	if len(cells) != BoardSize {
		return b, fmt.Errorf("board has %d cells, want %d: %w", len(cells), BoardSize, ErrInvalidInput)
	}
	for i, c := range cells {
		if c != None && !c.Valid() {
			return b, fmt.Errorf("cell %d holds %q: %w", i, c, ErrInvalidInput)
		}
		b[i] = c
	}
	return b, nil
}

// EmptyCells returns the indices of the empty cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, c := range b {
		if c == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for _, c := range b {
		if c == None {
			return false
		}
	}
	return true
}

// String renders the board as nine characters, '.' for empty cells.
func (b Board) String() string {
	buf := make([]byte, BoardSize)
	for i, c := range b {
		if c == None {
			buf[i] = '.'
		} else {
			buf[i] = c[0]
		}
	}
	return string(buf)
}

// ParseBoard is the inverse of Board.String. Both '.' and '_' denote empty cells.
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != BoardSize {
		return b, fmt.Errorf("board %q has %d cells, want %d: %w", s, len(s), BoardSize, ErrInvalidInput)
	}
	for i := range BoardSize {
		switch s[i] {
		case '.', '_':
			b[i] = None
		case 'X', 'x':
			b[i] = PlayerX
		case 'O', 'o':
			b[i] = PlayerO
		default:
			return b, fmt.Errorf("board %q has unknown cell %q: %w", s, s[i], ErrInvalidInput)
		}
	}
	return b, nil
}
