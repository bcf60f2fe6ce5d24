package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

// WebSocketAuthMiddleware authenticates from the token query parameter, since
// browsers cannot set headers on websocket upgrades.
func WebSocketAuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.Abort(c, utils.CodeUnauthorized, "token query parameter missing")
			return
		}
		authenticate(c, tokens, token)
	}
}
