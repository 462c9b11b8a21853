package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/francescogabrieli/budget-sociale/internal/interface/http/dto"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/response"
	"github.com/francescogabrieli/budget-sociale/internal/usecase/workflow"
)

type VoteHandler struct {
	workflow *workflow.Service
}

func NewVoteHandler(workflow *workflow.Service) *VoteHandler {
	return &VoteHandler{workflow: workflow}
}

func (h *VoteHandler) Vote(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	proposalID, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	vote, err := h.workflow.Vote(c.Request.Context(), principal, proposalID, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToVoteResponse(vote))
}

func (h *VoteHandler) DeleteVote(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	proposalID, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	if err := h.workflow.DeleteVote(c.Request.Context(), principal, proposalID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"proposal_id": proposalID, "deleted": true})
}

func (h *VoteHandler) ListUserVotes(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	userID, err := parseIDParam(c, "userId")
	if err != nil {
		response.BadRequest(c, "некорректный ID пользователя")
		return
	}

	votes, err := h.workflow.ListVotesByUser(c.Request.Context(), principal, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToVoteDetailResponses(votes))
}
