// Package response writes the JSON envelope shared by every endpoint:
// {"success": bool, "code": int, "extras": ...}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func write(c *gin.Context, code int, extras any) {
	c.JSON(code, Response{
		Success: code < http.StatusBadRequest,
		Code:    code,
		Extras:  extras,
	})
}

// SuccessResponse answers 200 with extras.
func SuccessResponse(c *gin.Context, extras any) {
	write(c, http.StatusOK, extras)
}

// CreatedResponse answers 201 with the created resource.
func CreatedResponse(c *gin.Context, extras any) {
	write(c, http.StatusCreated, extras)
}

// ErrorResponse answers code with {"message": message}.
func ErrorResponse(c *gin.Context, code int, message string) {
	write(c, code, gin.H{"message": message})
}
