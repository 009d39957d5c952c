package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoLegalMove  = errors.New("no legal move")
	ErrCellTaken    = errors.New("cell already occupied")
	ErrGameOver     = errors.New("game already finished")
	ErrNotYourTurn  = errors.New("not player's turn")
)

// Game is the authoritative state of a single game between a human and the
// computer. X always moves first.
type Game struct {
	Board      Board      `json:"board"`
	Next       PlayerMark `json:"next"`
	HumanMark  PlayerMark `json:"human_mark"`
	Difficulty string     `json:"difficulty"`
	LastMove   int        `json:"last_move"`
	Outcome    Outcome    `json:"outcome"`
}

// NewGame returns an empty game in which the human plays humanMark.
func NewGame(humanMark PlayerMark, difficulty string) (*Game, error) {
	if !humanMark.Valid() {
		return nil, fmt.Errorf("unknown human mark %q: %w", humanMark, ErrInvalidInput)
	}
	return &Game{
		Next:       PlayerX,
		HumanMark:  humanMark,
		Difficulty: difficulty,
		LastMove:   -1,
		Outcome:    Outcome{Status: StatusInProgress},
	}, nil
}

// ComputerMark returns the mark played by the computer.
func (g *Game) ComputerMark() PlayerMark {
	return g.HumanMark.Opponent()
}

// IsComputerTurn reports whether the computer should move next.
func (g *Game) IsComputerTurn() bool {
	return !g.Outcome.IsOver() && g.Next == g.ComputerMark()
}

// Move places mark at index and re-evaluates the board.
func (g *Game) Move(index int, mark PlayerMark) error {
	if g.Outcome.IsOver() {
		return ErrGameOver
	}
	if index < 0 || index >= BoardSize {
		return fmt.Errorf("cell %d out of range: %w", index, ErrInvalidInput)
	}
	if mark != g.Next {
		return ErrNotYourTurn
	}
	if g.Board[index] != None {
		return ErrCellTaken
	}

	g.Board[index] = mark
	g.LastMove = index
	g.Next = mark.Opponent()
	g.Outcome = Evaluate(g.Board)
	return nil
}

// Reset clears the board while keeping the sides and difficulty.
func (g *Game) Reset() {
	g.Board = Board{}
	g.Next = PlayerX
	g.LastMove = -1
	g.Outcome = Outcome{Status: StatusInProgress}
}
