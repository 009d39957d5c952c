package controller

import (
	"context"

	"ctchen222/tictactoe-minimax/internal/api/middleware"
	"ctchen222/tictactoe-minimax/internal/api/models"
	"ctchen222/tictactoe-minimax/internal/api/response"
	"ctchen222/tictactoe-minimax/internal/game"
	"ctchen222/tictactoe-minimax/internal/session"
	"ctchen222/tictactoe-minimax/pkg/proto"

	"github.com/gin-gonic/gin"
)

// GameService runs games against the computer.
type GameService interface {
	Start(ctx context.Context, ownerID string, humanMark game.PlayerMark, difficulty string) (*session.Session, error)
	Get(ctx context.Context, ownerID, gameID string) (*session.Session, error)
	Play(ctx context.Context, ownerID, gameID string, index int) (*session.Session, error)
	Restart(ctx context.Context, ownerID, gameID string) (*session.Session, error)
	End(ctx context.Context, ownerID, gameID string) error
}

// GameController handles the game endpoints. All routes require Auth.
type GameController struct {
	games GameService
}

// NewGameController creates a new GameController.
func NewGameController(games GameService) *GameController {
	return &GameController{games: games}
}

// Create starts a new game.
func (gc *GameController) Create(c *gin.Context) {
	req, ok := bindJSON[models.CreateGameRequest](c)
	if !ok {
		return
	}

	sess, err := gc.games.Start(c.Request.Context(), middleware.PlayerID(c), req.HumanMark, req.Difficulty)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.CreatedResponse(c, proto.NewGameView(sess))
}

// Get returns the current state of a game.
func (gc *GameController) Get(c *gin.Context) {
	sess, err := gc.games.Get(c.Request.Context(), middleware.PlayerID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewGameView(sess))
}

// Move plays the human's move and the computer's reply.
func (gc *GameController) Move(c *gin.Context) {
	req, ok := bindJSON[models.MoveRequest](c)
	if !ok {
		return
	}

	sess, err := gc.games.Play(c.Request.Context(), middleware.PlayerID(c), c.Param("id"), *req.Index)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewGameView(sess))
}

// Restart clears the board of a game.
func (gc *GameController) Restart(c *gin.Context) {
	sess, err := gc.games.Restart(c.Request.Context(), middleware.PlayerID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewGameView(sess))
}

// Delete ends a game.
func (gc *GameController) Delete(c *gin.Context) {
	if err := gc.games.End(c.Request.Context(), middleware.PlayerID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Game ended"})
}
