package controller

import (
	"ctchen222/tictactoe-minimax/internal/api/models"
	"ctchen222/tictactoe-minimax/internal/api/response"
	"ctchen222/tictactoe-minimax/internal/bot"
	"ctchen222/tictactoe-minimax/internal/game"
	"ctchen222/tictactoe-minimax/pkg/proto"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("api/controller")

// EngineController exposes the evaluator and the search engine on raw
// boards, without a stored game.
type EngineController struct{}

// NewEngineController creates a new EngineController.
func NewEngineController() *EngineController {
	return &EngineController{}
}

// Evaluate reports the outcome of a board.
func (ec *EngineController) Evaluate(c *gin.Context) {
	req, ok := bindJSON[models.EvaluateRequest](c)
	if !ok {
		return
	}

	board, err := game.BoardFromSlice(req.Board)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewOutcomeView(game.Evaluate(board)))
}

// BestMove runs the full minimax search for player on a board.
func (ec *EngineController) BestMove(c *gin.Context) {
	req, ok := bindJSON[models.BestMoveRequest](c)
	if !ok {
		return
	}

	board, err := game.BoardFromSlice(req.Board)
	if err != nil {
		RespondError(c, err)
		return
	}

	_, span := tracer.Start(c.Request.Context(), "engine.BestMove", trace.WithAttributes(
		attribute.String("board", board.String()),
		attribute.String("bot.mark", string(req.Player)),
	))
	defer span.End()

	idx, err := bot.FindBestMove(board, req.Player, req.Opponent)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		RespondError(c, err)
		return
	}
	span.SetAttributes(attribute.Int("move.index", idx))
	response.SuccessResponse(c, models.BestMoveResponse{Index: idx})
}
