package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware проверяет JWT access токен и кладёт участника в контекст.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		principal, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		c.Set(ContextUserIDKey, principal.UserID)
		c.Set(ContextRoleKey, principal.Role)
		c.Next()
	}
}

// GetPrincipal достаёт участника, положенного AuthMiddleware.
func GetPrincipal(c *gin.Context) (entity.Principal, bool) {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return entity.Principal{}, false
	}
	id, ok := userID.(int64)
	if !ok || id <= 0 {
		return entity.Principal{}, false
	}

	role, _ := c.Get(ContextRoleKey)
	r, _ := role.(valueobject.Role)
	return entity.Principal{UserID: id, Role: r}, true
}
