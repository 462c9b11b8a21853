package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/dto"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.LoginResponse{
		AccessToken: result.Token.Token,
		ExpiresAt:   result.Token.ExpiresAt,
		User:        dto.ToUserResponse(result.User),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	user, err := h.auth.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponse(user))
}
