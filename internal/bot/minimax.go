package bot

import (
	"context"
	"fmt"
	"runtime"

	"ctchen222/tictactoe-minimax/internal/game"

	"golang.org/x/sync/errgroup"
)

const (
	winScore  = 100
	lossScore = -100
	drawScore = 0

	// Fold seeds, outside the reachable score range.
	maxSeed = -1000
	minSeed = 1000
)

// FindBestMove returns the index of the best empty cell for player, searching
// the whole remaining game tree. Among equally scored moves the lowest index
// wins. A full board yields game.ErrNoLegalMove and index -1.
func FindBestMove(board game.Board, player, opponent game.PlayerMark) (int, error) {
	if err := checkMarks(player, opponent); err != nil {
		return -1, err
	}

	bestVal := maxSeed
	moveIndex := -1
	for i := range board {
		if board[i] != game.None {
			continue
		}
		next := board
		next[i] = player
		val := score(next, player, opponent, 0, false)
		if val > bestVal {
			bestVal = val
			moveIndex = i
		}
	}

	if moveIndex == -1 {
		return -1, game.ErrNoLegalMove
	}
	return moveIndex, nil
}

// FindBestMoveParallel scores each root move in its own goroutine. It returns
// exactly what FindBestMove returns for the same input.
func FindBestMoveParallel(ctx context.Context, board game.Board, player, opponent game.PlayerMark) (int, error) {
	if err := checkMarks(player, opponent); err != nil {
		return -1, err
	}

	moves := board.EmptyCells()
	if len(moves) == 0 {
		return -1, game.ErrNoLegalMove
	}

	scores := make([]int, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for n, idx := range moves {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			next := board
			next[idx] = player
			scores[n] = score(next, player, opponent, 0, false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return -1, fmt.Errorf("search aborted: %w", err)
	}

	bestVal := maxSeed
	moveIndex := -1
	for n, idx := range moves {
		if scores[n] > bestVal {
			bestVal = scores[n]
			moveIndex = idx
		}
	}
	return moveIndex, nil
}

// score is the minimax value of board for player. Terminal positions score
// raw; inner nodes subtract depth when maximizing and add it when minimizing,
// so faster wins and slower losses are preferred.
func score(board game.Board, player, opponent game.PlayerMark, depth int, maximizing bool) int {
	outcome := game.Evaluate(board)
	switch {
	case outcome.Status == game.StatusWin && outcome.Winner == player:
		return winScore
	case outcome.Status == game.StatusWin && outcome.Winner == opponent:
		return lossScore
	case outcome.Status == game.StatusDraw:
		return drawScore
	}

	if maximizing {
		best := maxSeed
		for i := range board {
			if board[i] != game.None {
				continue
			}
			next := board
			next[i] = player
			best = max(best, score(next, player, opponent, depth+1, false))
		}
		return best - depth
	}

	best := minSeed
	for i := range board {
		if board[i] != game.None {
			continue
		}
		next := board
		next[i] = opponent
		best = min(best, score(next, player, opponent, depth+1, true))
	}
	return best + depth
}

func checkMarks(player, opponent game.PlayerMark) error {
	if !player.Valid() || !opponent.Valid() {
		return fmt.Errorf("marks %q and %q must be X or O: %w", player, opponent, game.ErrInvalidInput)
	}
	if player == opponent {
		return fmt.Errorf("player and opponent both play %q: %w", player, game.ErrInvalidInput)
	}
	return nil
}
