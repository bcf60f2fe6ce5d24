package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

// RequireRoles lets only the listed roles through. It must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.Abort(c, utils.CodeUnauthorized, "unauthorized")
			return
		}
		if _, ok := allowed[models.Role(role.(string))]; !ok {
			utils.Abort(c, utils.CodeForbidden, "You do not have permission")
			return
		}
		c.Next()
	}
}

// RequireStaff lets any non-customer role through.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleHeadquarterManager, models.RoleBranchManager, models.RoleCashier, models.RoleChef)
}
