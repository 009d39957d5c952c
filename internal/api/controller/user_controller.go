package controller

import (
	"ctchen222/tictactoe-minimax/internal/api/models"
	"ctchen222/tictactoe-minimax/internal/api/response"
	"ctchen222/tictactoe-minimax/internal/api/service"

	"github.com/gin-gonic/gin"
)

// UserController serves /api/auth.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register creates an account. It does not log the user in.
func (uc *UserController) Register(c *gin.Context) {
	req, ok := bindJSON[models.RegisterRequest](c)
	if !ok {
		return
	}
	if err := uc.userService.Register(c.Request.Context(), req); err != nil {
		RespondError(c, err)
		return
	}
	response.CreatedResponse(c, gin.H{"username": req.Username})
}

// Login exchanges credentials for a token bound to the account's player ID.
func (uc *UserController) Login(c *gin.Context) {
	req, ok := bindJSON[models.LoginRequest](c)
	if !ok {
		return
	}
	resp, err := uc.userService.Login(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, resp)
}

// GuestLogin issues a token for a fresh anonymous player ID.
func (uc *UserController) GuestLogin(c *gin.Context) {
	resp, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	response.SuccessResponse(c, resp)
}
