package game

// GameStatus describes where a board stands.
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWin        GameStatus = "win"
	StatusDraw       GameStatus = "draw"
)

// Outcome is the verdict on a board. Winner and Line are only set when
// Status is StatusWin.
type Outcome struct {
	Status GameStatus `json:"status"`
	Winner PlayerMark `json:"winner,omitempty"`
	Line   *Line      `json:"line,omitempty"`
}

// IsOver reports whether the game has been won or drawn.
func (o Outcome) IsOver() bool {
	return o.Status != StatusInProgress
}

// Evaluate inspects the board and reports a win, a draw, or a game in
// progress. When more than one line is complete the first one in Lines wins.
func Evaluate(b Board) Outcome {
	for _, line := range Lines {
		first := b[line[0]]
		if first != None && first == b[line[1]] && first == b[line[2]] {
			l := line
			return Outcome{Status: StatusWin, Winner: first, Line: &l}
		}
	}

	if b.IsFull() {
		return Outcome{Status: StatusDraw}
	}

	return Outcome{Status: StatusInProgress}
}
