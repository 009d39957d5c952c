package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"ctchen222/tictactoe-minimax/internal/game"
)

func parseBoard(t *testing.T, s string) game.Board {
	t.Helper()
	b, err := game.ParseBoard(s)
	if err != nil {
		t.Fatalf("ParseBoard(%q) failed: %v", s, err)
	}
	return b
}

// randomPositions plays random games and collects every non-terminal position reached.
func randomPositions(games int) []game.Board {
	rng := rand.New(rand.NewPCG(7, 11))
	var positions []game.Board
	for range games {
		var b game.Board
		mark := game.PlayerX
		for !game.Evaluate(b).IsOver() {
			positions = append(positions, b)
			empty := b.EmptyCells()
			b[empty[rng.IntN(len(empty))]] = mark
			mark = mark.Opponent()
		}
	}
	return positions
}

func sideToMove(b game.Board) game.PlayerMark {
	x, o := 0, 0
	for _, c := range b {
		switch c {
		case game.PlayerX:
			x++
		case game.PlayerO:
			o++
		}
	}
	if x > o {
		return game.PlayerO
	}
	return game.PlayerX
}

func TestFindBestMove(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		player   game.PlayerMark
		opponent game.PlayerMark
		want     int
	}{
		{
			name:     "Empty board opens in the first corner",
			board:    ".........",
			player:   game.PlayerX,
			opponent: game.PlayerO,
			want:     0,
		},
		{
			name:     "Completes its own row",
			board:    "XX.OO....",
			player:   game.PlayerX,
			opponent: game.PlayerO,
			want:     2,
		},
		{
			name:     "Blocks the opponent's row",
			board:    "X...OO...",
			player:   game.PlayerX,
			opponent: game.PlayerO,
			want:     3,
		},
		{
			name:     "Prefers winning over blocking",
			board:    "OO.XX....",
			player:   game.PlayerX,
			opponent: game.PlayerO,
			want:     5,
		},
		{
			name:     "Plays as O",
			board:    "XX..O....",
			player:   game.PlayerO,
			opponent: game.PlayerX,
			want:     2,
		},
		{
			name:     "Last empty cell",
			board:    "XOXXOOOX.",
			player:   game.PlayerX,
			opponent: game.PlayerO,
			want:     8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindBestMove(parseBoard(t, tt.board), tt.player, tt.opponent)
			if err != nil {
				t.Fatalf("FindBestMove() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FindBestMove(%s) got %d, want %d", tt.board, got, tt.want)
			}
		})
	}
}

func TestFindBestMoveErrors(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		player   game.PlayerMark
		opponent game.PlayerMark
		wantErr  error
	}{
		{name: "Full board", board: "XOXXOOOXX", player: game.PlayerX, opponent: game.PlayerO, wantErr: game.ErrNoLegalMove},
		{name: "Same marks", board: ".........", player: game.PlayerX, opponent: game.PlayerX, wantErr: game.ErrInvalidInput},
		{name: "Empty mark", board: ".........", player: game.None, opponent: game.PlayerO, wantErr: game.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindBestMove(parseBoard(t, tt.board), tt.player, tt.opponent)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FindBestMove() error = %v, want %v", err, tt.wantErr)
			}
			if got != -1 {
				t.Errorf("FindBestMove() index = %d, want -1", got)
			}
		})
	}
}

func TestFindBestMoveLeavesBoardUntouched(t *testing.T) {
	b := parseBoard(t, "X...O....")
	before := b
	if _, err := FindBestMove(b, game.PlayerX, game.PlayerO); err != nil {
		t.Fatalf("FindBestMove failed: %v", err)
	}
	if b != before {
		t.Errorf("board changed from %s to %s", before, b)
	}
}

func TestFindBestMoveAlwaysPicksEmptyCell(t *testing.T) {
	for _, b := range randomPositions(40) {
		player := sideToMove(b)
		idx, err := FindBestMove(b, player, player.Opponent())
		if err != nil {
			t.Fatalf("FindBestMove(%s) failed: %v", b, err)
		}
		if idx < 0 || idx >= game.BoardSize || b[idx] != game.None {
			t.Fatalf("FindBestMove(%s) returned occupied or invalid cell %d", b, idx)
		}
	}
}

func TestSelfPlayEndsInDraw(t *testing.T) {
	var b game.Board
	mark := game.PlayerX
	for moves := 0; !game.Evaluate(b).IsOver(); moves++ {
		if moves >= game.BoardSize {
			t.Fatalf("self-play did not finish: %s", b)
		}
		idx, err := FindBestMove(b, mark, mark.Opponent())
		if err != nil {
			t.Fatalf("FindBestMove(%s) failed: %v", b, err)
		}
		b[idx] = mark
		mark = mark.Opponent()
	}

	if got := game.Evaluate(b); got.Status != game.StatusDraw {
		t.Errorf("self-play ended with %+v on %s, want a draw", got, b)
	}
}

func TestNeverLosesToRandomPlayer(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for g := range 30 {
		botMark := game.PlayerX
		if g%2 == 1 {
			botMark = game.PlayerO
		}
		var b game.Board
		mark := game.PlayerX
		for !game.Evaluate(b).IsOver() {
			if mark == botMark {
				idx, err := FindBestMove(b, botMark, botMark.Opponent())
				if err != nil {
					t.Fatalf("FindBestMove(%s) failed: %v", b, err)
				}
				b[idx] = mark
			} else {
				empty := b.EmptyCells()
				b[empty[rng.IntN(len(empty))]] = mark
			}
			mark = mark.Opponent()
		}
		if out := game.Evaluate(b); out.Status == game.StatusWin && out.Winner != botMark {
			t.Errorf("game %d: bot playing %s lost on %s", g, botMark, b)
		}
	}
}

func TestScoreDepthAdjustment(t *testing.T) {
	// X wins immediately at 2; from the minimizing ply the leaf is raw.
	won := parseBoard(t, "XXXOO....")
	if got := score(won, game.PlayerX, game.PlayerO, 3, false); got != winScore {
		t.Errorf("terminal win scored %d, want %d", got, winScore)
	}
	lost := parseBoard(t, "OOOXX.X..")
	if got := score(lost, game.PlayerX, game.PlayerO, 3, true); got != lossScore {
		t.Errorf("terminal loss scored %d, want %d", got, lossScore)
	}

	// X to move with a win available one ply down: max(100) - depth.
	b := parseBoard(t, "XX.OO.O..")
	if got := score(b, game.PlayerX, game.PlayerO, 1, true); got != winScore-1 {
		t.Errorf("maximizing ply scored %d, want %d", got, winScore-1)
	}
	// O to move with a win available one ply down: min(-100) + depth.
	if got := score(b, game.PlayerX, game.PlayerO, 2, false); got != lossScore+2 {
		t.Errorf("minimizing ply scored %d, want %d", got, lossScore+2)
	}
}

func TestFindBestMoveParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	positions := append([]game.Board{{}}, randomPositions(15)...)
	for _, b := range positions {
		player := sideToMove(b)
		want, err := FindBestMove(b, player, player.Opponent())
		if err != nil {
			t.Fatalf("FindBestMove(%s) failed: %v", b, err)
		}
		got, err := FindBestMoveParallel(ctx, b, player, player.Opponent())
		if err != nil {
			t.Fatalf("FindBestMoveParallel(%s) failed: %v", b, err)
		}
		if got != want {
			t.Errorf("FindBestMoveParallel(%s) got %d, want %d", b, got, want)
		}
	}
}

func TestFindBestMoveParallelErrors(t *testing.T) {
	full := parseBoard(t, "XOXXOOOXX")
	if _, err := FindBestMoveParallel(context.Background(), full, game.PlayerX, game.PlayerO); !errors.Is(err, game.ErrNoLegalMove) {
		t.Errorf("full board error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FindBestMoveParallel(ctx, game.Board{}, game.PlayerX, game.PlayerO); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled search error = %v", err)
	}
}
