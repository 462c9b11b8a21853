package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/dto"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/usecase/workflow"
)

type ApprovalHandler struct {
	workflow *workflow.Service
}

func NewApprovalHandler(workflow *workflow.Service) *ApprovalHandler {
	return &ApprovalHandler{workflow: workflow}
}

// ComputeApprovals пересчитывает одобренные предложения и возвращает итог.
func (h *ApprovalHandler) ComputeApprovals(c *gin.Context) {
	result, err := h.workflow.ComputeApprovals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToApprovalResultResponse(result))
}
