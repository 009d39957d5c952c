package proto

import (
	"ctchen222/tictactoe-minimax/internal/game"
	"ctchen222/tictactoe-minimax/internal/session"
)

// Client message types.
const (
	TypeMove    = "move"
	TypeRestart = "restart"
)

// Server message types.
const (
	TypeUpdate = "update"
	TypeEnded  = "ended"
	TypeError  = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type  string `json:"type" validate:"required,oneof=move restart"`
	Index *int   `json:"index,omitempty" validate:"omitempty,min=0,max=8"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string    `json:"type" validate:"required"`
	Reason string    `json:"reason,omitempty"`
	Game   *GameView `json:"game,omitempty"`
}

// GameView is the client-facing rendering of a session.
type GameView struct {
	ID           string          `json:"id"`
	Board        game.Board      `json:"board"`
	Next         game.PlayerMark `json:"next"`
	HumanMark    game.PlayerMark `json:"human_mark"`
	ComputerMark game.PlayerMark `json:"computer_mark"`
	Difficulty   string          `json:"difficulty"`
	LastMove     int             `json:"last_move"`
	Status       game.GameStatus `json:"status"`
	Winner       game.PlayerMark `json:"winner,omitempty"`
	WinningLine  *game.Line      `json:"winning_line,omitempty"`
}

// NewGameView builds the view of sess. Next is empty once the game is over.
func NewGameView(sess *session.Session) *GameView {
	g := &sess.Game
	view := &GameView{
		ID:           sess.ID,
		Board:        g.Board,
		Next:         g.Next,
		HumanMark:    g.HumanMark,
		ComputerMark: g.ComputerMark(),
		Difficulty:   g.Difficulty,
		LastMove:     g.LastMove,
		Status:       g.Outcome.Status,
		Winner:       g.Outcome.Winner,
		WinningLine:  g.Outcome.Line,
	}
	if g.Outcome.IsOver() {
		view.Next = game.None
	}
	return view
}

// OutcomeView is the response of the stateless evaluate endpoint.
type OutcomeView struct {
	Status      game.GameStatus `json:"status"`
	Winner      game.PlayerMark `json:"winner,omitempty"`
	WinningLine *game.Line      `json:"winning_line,omitempty"`
}

// NewOutcomeView converts an outcome for the wire.
func NewOutcomeView(o game.Outcome) OutcomeView {
	return OutcomeView{Status: o.Status, Winner: o.Winner, WinningLine: o.Line}
}
