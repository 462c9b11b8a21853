package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/http/middleware"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
)

func getPrincipal(c *gin.Context) (entity.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
		return entity.Principal{}, false
	}
	return principal, true
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("некорректный идентификатор")
	}
	return id, nil
}
