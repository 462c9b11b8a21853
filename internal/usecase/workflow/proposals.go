package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/events"
)

func (s *Service) AddProposal(ctx context.Context, principal entity.Principal, description string, cost float64) (*entity.Proposal, error) {
	fields := logrus.Fields{"user_id": principal.UserID, "cost": cost}
	if err := requireMember(principal); err != nil {
		return nil, s.done("add_proposal", err, fields)
	}

	proposal, err := entity.NewProposal(principal.UserID, description, cost)
	if err != nil {
		return nil, s.done("add_proposal", err, fields)
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, s.done("add_proposal", err, fields)
	}

	event := events.New(events.TypeProposalCreated, int(valueobject.PhaseProposalSubmission))
	event.ProposalID = proposal.ID
	s.publish(ctx, event)

	return proposal, s.done("add_proposal", nil, nil)
}

func (s *Service) UpdateProposal(ctx context.Context, principal entity.Principal, id int64, description string, cost float64) (*entity.Proposal, error) {
	fields := logrus.Fields{"user_id": principal.UserID, "proposal_id": id}
	if err := requireMember(principal); err != nil {
		return nil, s.done("update_proposal", err, fields)
	}

	proposal := &entity.Proposal{ID: id, OwnerID: principal.UserID}
	if err := proposal.Change(description, cost); err != nil {
		return nil, s.done("update_proposal", err, fields)
	}

	if err := s.proposals.Update(ctx, proposal); err != nil {
		return nil, s.done("update_proposal", err, fields)
	}

	event := events.New(events.TypeProposalUpdated, int(valueobject.PhaseProposalSubmission))
	event.ProposalID = id
	s.publish(ctx, event)

	return proposal, s.done("update_proposal", nil, nil)
}

func (s *Service) DeleteProposal(ctx context.Context, principal entity.Principal, id int64) error {
	fields := logrus.Fields{"user_id": principal.UserID, "proposal_id": id}
	if err := requireMember(principal); err != nil {
		return s.done("delete_proposal", err, fields)
	}

	if err := s.proposals.Delete(ctx, id, principal.UserID); err != nil {
		return s.done("delete_proposal", err, fields)
	}

	event := events.New(events.TypeProposalDeleted, int(valueobject.PhaseProposalSubmission))
	event.ProposalID = id
	s.publish(ctx, event)

	return s.done("delete_proposal", nil, nil)
}

// ListProposalsByOwner пустой список не считается ошибкой.
func (s *Service) ListProposalsByOwner(ctx context.Context, ownerID int64) ([]*entity.Proposal, error) {
	proposals, err := s.proposals.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.done("list_proposals_by_owner", err, logrus.Fields{"owner_id": ownerID})
	}
	return proposals, nil
}

func (s *Service) ListAllProposals(ctx context.Context) ([]*entity.Proposal, error) {
	proposals, err := s.proposals.ListAll(ctx)
	if err != nil {
		return nil, s.done("list_proposals", err, nil)
	}
	return proposals, nil
}
