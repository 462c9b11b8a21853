package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
)

// IDParam проверяет, что параметр пути положительное целое число.
// Использование: router.PUT("/proposals/:id", IDParam("id"), handler.UpdateProposal)
func IDParam(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		if raw == "" {
			response.BadRequest(c, "параметр "+paramName+" обязателен")
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "параметр "+paramName+" должен быть положительным целым числом")
			return
		}

		c.Next()
	}
}
