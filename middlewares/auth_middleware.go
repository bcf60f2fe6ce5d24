package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextBranchID  = "branch_id"
	ContextToken     = "token"
	ContextRequestID = "request_id"
)

// AuthMiddleware requires a valid "Authorization: Bearer <jwt>" header.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.Abort(c, utils.CodeUnauthorized, "Authorization header missing")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.Abort(c, utils.CodeUnauthorized, "Invalid authorization format")
			return
		}
		authenticate(c, tokens, strings.TrimSpace(tokenString))
	}
}

func authenticate(c *gin.Context, tokens *utils.TokenIssuer, tokenString string) {
	claims, err := tokens.ParseToken(tokenString)
	if err != nil || claims.UserID == 0 {
		utils.Abort(c, utils.CodeUnauthorized, "Invalid or expired token")
		return
	}
	if !models.Role(claims.Role).Valid() {
		utils.Abort(c, utils.CodeUnauthorized, "Invalid role in token")
		return
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextBranchID, claims.BranchID)
	c.Set(ContextToken, tokenString)
	c.Next()
}

// Viewer returns the authenticated caller set by the auth middlewares.
func Viewer(c *gin.Context) models.Viewer {
	v := models.Viewer{
		UserID: c.GetUint(ContextUserID),
		Role:   models.Role(c.GetString(ContextRole)),
	}
	if raw, ok := c.Get(ContextBranchID); ok {
		v.BranchID, _ = raw.(*uint)
	}
	return v
}
