package controller

import (
	"net/http"

	"ctchen222/tictactoe-minimax/internal/api/response"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes and validates the request body. On failure it has
// already answered 400 and reports false.
func bindJSON[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &req, true
}
