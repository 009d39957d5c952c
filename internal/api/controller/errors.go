package controller

import (
	"errors"
	"net/http"

	"ctchen222/tictactoe-minimax/internal/api/response"
	"ctchen222/tictactoe-minimax/internal/api/service"
	"ctchen222/tictactoe-minimax/internal/game"
	"ctchen222/tictactoe-minimax/internal/session"

	"github.com/gin-gonic/gin"
)

// StatusFor maps a domain error to the HTTP status reported to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrCellTaken),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, game.ErrNoLegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err with the status StatusFor picks. Internal errors
// are not echoed to the client.
func RespondError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		response.ErrorResponse(c, code, http.StatusText(code))
		return
	}
	response.ErrorResponse(c, code, err.Error())
}
