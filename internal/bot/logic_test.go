package bot

import (
	"errors"
	"testing"

	"ctchen222/tictactoe-minimax/internal/game"
)

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     string
		mark      game.PlayerMark
		wantIdx   int
		wantFound bool
	}{
		{name: "No winning move - empty board", board: ".........", mark: game.PlayerX, wantIdx: -1, wantFound: false},
		{name: "X can win - first row", board: "XX.OO....", mark: game.PlayerX, wantIdx: 2, wantFound: true},
		{name: "O can win - second column", board: "XO.XO....", mark: game.PlayerO, wantIdx: 7, wantFound: true},
		{name: "X can win - main diagonal", board: "X...X....", mark: game.PlayerX, wantIdx: 8, wantFound: true},
		{name: "O can win - anti-diagonal", board: "..O.O....", mark: game.PlayerO, wantIdx: 6, wantFound: true},
		{name: "Blocked line is not a win", board: "XXO......", mark: game.PlayerX, wantIdx: -1, wantFound: false},
		{name: "Full board, no win possible", board: "XOXOXOOXO", mark: game.PlayerX, wantIdx: -1, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := findWinningMove(parseBoard(t, tt.board), tt.mark)
			if found != tt.wantFound || idx != tt.wantIdx {
				t.Errorf("findWinningMove(%s) got (%d, %v), want (%d, %v)", tt.board, idx, found, tt.wantIdx, tt.wantFound)
			}
		})
	}
}

func TestEasyMove(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		idx, err := easyMove(parseBoard(t, "XOXOXOX.O"))
		if err != nil || idx != 7 {
			t.Errorf("easyMove should pick the only available spot 7, got %d (%v)", idx, err)
		}
	})

	t.Run("Multiple spots left", func(t *testing.T) {
		b := parseBoard(t, "X...O....")
		for range 50 {
			idx, err := easyMove(b)
			if err != nil {
				t.Fatalf("easyMove failed: %v", err)
			}
			if b[idx] != game.None {
				t.Errorf("easyMove returned an occupied cell %d", idx)
			}
		}
	})

	t.Run("Full board", func(t *testing.T) {
		idx, err := easyMove(parseBoard(t, "XOXXOOOXX"))
		if !errors.Is(err, game.ErrNoLegalMove) || idx != -1 {
			t.Errorf("easyMove on a full board got (%d, %v)", idx, err)
		}
	})
}

func TestMediumMove(t *testing.T) {
	tests := []struct {
		name    string
		board   string
		botMark game.PlayerMark
		want    int // -1 accepts any empty cell
	}{
		{name: "Bot can win", board: "XX.O.....", botMark: game.PlayerX, want: 2},
		{name: "Bot must block opponent", board: "OO.X.....", botMark: game.PlayerX, want: 2},
		{name: "Win beats block", board: "OO.XX....", botMark: game.PlayerX, want: 5},
		{name: "No immediate win or block", board: "X...O....", botMark: game.PlayerX, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := parseBoard(t, tt.board)
			idx, err := mediumMove(b, tt.botMark)
			if err != nil {
				t.Fatalf("mediumMove failed: %v", err)
			}
			if tt.want == -1 {
				if b[idx] != game.None {
					t.Errorf("mediumMove returned an occupied cell %d", idx)
				}
				return
			}
			if idx != tt.want {
				t.Errorf("mediumMove got %d, want %d", idx, tt.want)
			}
		})
	}
}

func TestCalculateNextMoveDifficulties(t *testing.T) {
	b := parseBoard(t, "X...OO...")
	for _, difficulty := range []string{DifficultyHard, "unknown", ""} {
		idx, err := CalculateNextMove(b, game.PlayerX, difficulty)
		if err != nil || idx != 3 {
			t.Errorf("CalculateNextMove(%q) got (%d, %v), want 3", difficulty, idx, err)
		}
	}
	if idx, err := CalculateNextMove(b, game.PlayerX, DifficultyMedium); err != nil || idx != 3 {
		t.Errorf("CalculateNextMove(medium) got (%d, %v), want block at 3", idx, err)
	}
	if idx, err := CalculateNextMove(b, game.PlayerX, DifficultyEasy); err != nil || b[idx] != game.None {
		t.Errorf("CalculateNextMove(easy) got (%d, %v)", idx, err)
	}
}
