package models

import "ctchen222/tictactoe-minimax/internal/game"

// CreateGameRequest starts a game against the computer.
type CreateGameRequest struct {
	HumanMark  game.PlayerMark `json:"human_mark" binding:"required,oneof=X O"`
	Difficulty string          `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// MoveRequest places the human's mark on a cell.
type MoveRequest struct {
	Index *int `json:"index" binding:"required,min=0,max=8"`
}

// EvaluateRequest asks for the outcome of a board. Cells are "", "X" or "O".
type EvaluateRequest struct {
	Board []game.PlayerMark `json:"board" binding:"required"`
}

// BestMoveRequest asks for the best cell for player on board.
type BestMoveRequest struct {
	Board    []game.PlayerMark `json:"board" binding:"required"`
	Player   game.PlayerMark   `json:"player" binding:"required"`
	Opponent game.PlayerMark   `json:"opponent" binding:"required"`
}

// BestMoveResponse is the answer to a BestMoveRequest.
type BestMoveResponse struct {
	Index int `json:"index"`
}
