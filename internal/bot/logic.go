package bot

import (
	"math/rand/v2"

	"ctchen222/tictactoe-minimax/internal/game"
)

// Difficulty levels understood by CalculateNextMove.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// CalculateNextMove determines the bot's next move based on the specified difficulty.
// Unknown difficulties play at full strength.
func CalculateNextMove(board game.Board, botMark game.PlayerMark, difficulty string) (int, error) {
	switch difficulty {
	case DifficultyEasy:
		return easyMove(board)
	case DifficultyMedium:
		return mediumMove(board, botMark)
	default:
		return hardMove(board, botMark)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board) (int, error) {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return -1, game.ErrNoLegalMove
	}
	return availableMoves[rand.IntN(len(availableMoves))], nil
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board, botMark game.PlayerMark) (int, error) {
	// 1. Win
	if idx, canWin := findWinningMove(board, botMark); canWin {
		return idx, nil
	}

	// 2. Block
	if idx, canBlock := findWinningMove(board, botMark.Opponent()); canBlock {
		return idx, nil
	}

	// 3. Random
	return easyMove(board)
}

// hardMove plays the minimax choice.
func hardMove(board game.Board, botMark game.PlayerMark) (int, error) {
	return FindBestMove(board, botMark, botMark.Opponent())
}

// findWinningMove checks if a player has a potential winning move (two in a line with an empty third).
func findWinningMove(board game.Board, mark game.PlayerMark) (int, bool) {
	for _, line := range game.Lines {
		owned, empty := 0, -1
		for _, idx := range line {
			switch board[idx] {
			case mark:
				owned++
			case game.None:
				empty = idx
			}
		}
		if owned == 2 && empty != -1 {
			return empty, true
		}
	}
	return -1, false
}
