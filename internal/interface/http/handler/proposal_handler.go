package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/dto"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/usecase/workflow"
)

type ProposalHandler struct {
	workflow *workflow.Service
}

func NewProposalHandler(workflow *workflow.Service) *ProposalHandler {
	return &ProposalHandler{workflow: workflow}
}

func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	var req dto.ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.workflow.AddProposal(c.Request.Context(), principal, req.Description, req.Cost)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	proposalID, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	var req dto.ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.workflow.UpdateProposal(c.Request.Context(), principal, proposalID, req.Description, req.Cost)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(updated))
}

func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	proposalID, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	if err := h.workflow.DeleteProposal(c.Request.Context(), principal, proposalID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": proposalID, "deleted": true})
}

func (h *ProposalHandler) ListProposals(c *gin.Context) {
	proposals, err := h.workflow.ListAllProposals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *ProposalHandler) ListUserProposals(c *gin.Context) {
	ownerID, err := parseIDParam(c, "userId")
	if err != nil {
		response.BadRequest(c, "некорректный ID пользователя")
		return
	}

	proposals, err := h.workflow.ListProposalsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}
