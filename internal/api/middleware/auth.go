package middleware

import (
	"net/http"
	"strings"

	"ctchen222/tictactoe-minimax/internal/api/response"

	"github.com/gin-gonic/gin"
)

const playerIDKey = "player_id"

// TokenParser resolves a token to the player ID it was issued to.
type TokenParser interface {
	ParseToken(tokenString string) (string, error)
}

// Auth rejects requests without a valid token. The token is read from the
// Authorization header, or from the "token" query parameter for websocket
// clients that cannot set headers.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if h := c.GetHeader("Authorization"); h != "" {
			scheme, rest, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				response.ErrorResponse(c, http.StatusUnauthorized, "malformed authorization header")
				c.Abort()
				return
			}
			token = strings.TrimSpace(rest)
		}
		if token == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing token")
			c.Abort()
			return
		}

		playerID, err := parser.ParseToken(token)
		if err != nil {
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(playerIDKey, playerID)
		c.Next()
	}
}

// PlayerID returns the player authenticated by Auth.
func PlayerID(c *gin.Context) string {
	return c.GetString(playerIDKey)
}
