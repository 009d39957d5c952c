// Command selfplay plays the minimax engine against itself and prints every
// position. Starting from the empty board the game must end in a draw.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"ctchen222/tictactoe-minimax/internal/bot"
	"ctchen222/tictactoe-minimax/internal/game"

	"github.com/muesli/termenv"
)

const (
	exitOK       = 0
	exitNotDrawn = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("selfplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	boardFlag := fs.String("board", ".........", "starting position, 9 cells of X, O or . in row-major order")
	parallel := fs.Bool("parallel", false, "score root moves concurrently")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	board, err := game.ParseBoard(*boardFlag)
	if err != nil {
		fmt.Fprintf(stderr, "selfplay: %v\n", err)
		return exitUsage
	}
	mover, err := sideToMove(board)
	if err != nil {
		fmt.Fprintf(stderr, "selfplay: %v\n", err)
		return exitUsage
	}

	out := termenv.NewOutput(stdout)
	fromEmpty := board == game.Board{}

	outcome := game.Evaluate(board)
	render(out, board, outcome, -1)
	for !outcome.IsOver() {
		var idx int
		if *parallel {
			idx, err = bot.FindBestMoveParallel(context.Background(), board, mover, mover.Opponent())
		} else {
			idx, err = bot.FindBestMove(board, mover, mover.Opponent())
		}
		if err != nil {
			fmt.Fprintf(stderr, "selfplay: %v\n", err)
			return exitUsage
		}

		board[idx] = mover
		outcome = game.Evaluate(board)
		fmt.Fprintf(out, "%s plays %d\n", mover, idx)
		render(out, board, outcome, idx)
		mover = mover.Opponent()
	}

	switch outcome.Status {
	case game.StatusWin:
		fmt.Fprintln(out, out.String(fmt.Sprintf("%s wins on %v", outcome.Winner, *outcome.Line)).Bold())
	default:
		fmt.Fprintln(out, out.String("draw").Bold())
	}

	if fromEmpty && outcome.Status != game.StatusDraw {
		fmt.Fprintln(stderr, "selfplay: perfect play from the empty board must draw")
		return exitNotDrawn
	}
	return exitOK
}

// sideToMove infers whose turn it is from the mark counts. X moves first.
func sideToMove(b game.Board) (game.PlayerMark, error) {
	var xCount, oCount int
	for _, m := range b {
		switch m {
		case game.PlayerX:
			xCount++
		case game.PlayerO:
			oCount++
		}
	}
	switch xCount - oCount {
	case 0:
		return game.PlayerX, nil
	case 1:
		return game.PlayerO, nil
	default:
		return game.None, errors.New("mark counts cannot arise from alternating play")
	}
}

// render prints the board with the last move and any winning line highlighted.
func render(out *termenv.Output, b game.Board, outcome game.Outcome, last int) {
	winning := map[int]bool{}
	if outcome.Line != nil {
		for _, i := range outcome.Line {
			winning[i] = true
		}
	}

	var sb strings.Builder
	for row := game.BorderMin; row <= game.BorderMax; row++ {
		for col := game.BorderMin; col <= game.BorderMax; col++ {
			i := game.Index(row, col)
			cell := string(b[i])
			if cell == "" {
				cell = "."
			}
			style := out.String(cell)
			switch {
			case winning[i]:
				style = style.Foreground(termenv.ANSIGreen).Bold()
			case i == last:
				style = style.Foreground(termenv.ANSIYellow)
			case b[i] == game.PlayerX:
				style = style.Foreground(termenv.ANSIRed)
			case b[i] == game.PlayerO:
				style = style.Foreground(termenv.ANSIBlue)
			}
			sb.WriteString(style.String())
			if col < game.BorderMax {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	fmt.Fprintln(out, sb.String())
}
