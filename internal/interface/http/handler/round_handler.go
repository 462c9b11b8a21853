package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/dto"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/usecase/workflow"
)

// RoundHandler фаза, бюджет и сброс процесса.
type RoundHandler struct {
	workflow *workflow.Service
}

func NewRoundHandler(workflow *workflow.Service) *RoundHandler {
	return &RoundHandler{workflow: workflow}
}

func (h *RoundHandler) GetPhase(c *gin.Context) {
	phase, err := h.workflow.GetPhase(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPhaseResponse(phase))
}

func (h *RoundHandler) GetRound(c *gin.Context) {
	round, err := h.workflow.GetRound(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToRoundResponse(round))
}

func (h *RoundHandler) GetBudget(c *gin.Context) {
	budget, err := h.workflow.GetBudget(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.BudgetResponse{Budget: budget.Amount()})
}

func (h *RoundHandler) SetBudget(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	round, err := h.workflow.SetBudget(c.Request.Context(), principal, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToRoundResponse(round))
}

func (h *RoundHandler) AdvancePhase(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	phase, err := h.workflow.AdvancePhase(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPhaseResponse(phase))
}

func (h *RoundHandler) Reset(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	if err := h.workflow.ResetAll(c.Request.Context(), principal); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"reset": true})
}
