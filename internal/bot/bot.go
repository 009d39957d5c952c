package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ctchen222/tictactoe-minimax/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")
)

// Calculator picks the computer's moves and reports search telemetry.
type Calculator struct {
	parallel       bool
	searchDuration metric.Float64Histogram
	moves          metric.Int64Counter
}

// NewCalculator creates a Calculator. With parallel set, full-strength
// searches score the root moves concurrently.
func NewCalculator(parallel bool) (*Calculator, error) {
	searchDuration, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent choosing a computer move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search duration histogram: %w", err)
	}
	moves, err := meter.Int64Counter("bot.moves",
		metric.WithDescription("Number of computer moves chosen"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	return &Calculator{parallel: parallel, searchDuration: searchDuration, moves: moves}, nil
}

// CalculateNextMove returns the cell the computer playing mark should take.
func (c *Calculator) CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty string) (int, error) {
	ctx, span := tracer.Start(ctx, "bot.CalculateNextMove", trace.WithAttributes(
		attribute.String("bot.mark", string(mark)),
		attribute.String("bot.difficulty", difficulty),
		attribute.String("board", board.String()),
	))
	defer span.End()

	start := time.Now()
	var (
		idx int
		err error
	)
	if c.parallel && difficulty != DifficultyEasy && difficulty != DifficultyMedium {
		idx, err = FindBestMoveParallel(ctx, board, mark, mark.Opponent())
	} else {
		idx, err = CalculateNextMove(board, mark, difficulty)
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	attrs := metric.WithAttributes(attribute.String("bot.difficulty", difficulty))
	c.searchDuration.Record(ctx, elapsed, attrs)

	if err != nil {
		slog.WarnContext(ctx, "bot could not choose a move", "bot.mark", mark, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bot could not choose a move")
		return -1, err
	}

	c.moves.Add(ctx, 1, attrs)
	span.SetAttributes(attribute.Int("move.index", idx))
	slog.DebugContext(ctx, "bot chose move", "bot.mark", mark, "move.index", idx, "elapsed_ms", elapsed)
	return idx, nil
}
