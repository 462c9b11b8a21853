package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/events"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
)

// ComputeApprovals пересчитывает одобрения. Повторный вызов в фазе 3 снова пишет флаги
// и возвращает то же разбиение, если предложения и голоса не менялись.
func (s *Service) ComputeApprovals(ctx context.Context) (*entity.ApprovalResult, error) {
	result, err := s.approvals.Apply(ctx, s.planner)
	if err != nil {
		return nil, s.done("compute_approvals", err, nil)
	}

	s.metrics.ApprovalsComputed(len(result.Approved))

	event := events.New(events.TypeApprovalsComputed, int(valueobject.PhaseResults))
	event.Payload = map[string]interface{}{
		"approved":     result.ApprovedIDs(),
		"approved_sum": result.TotalApprovedCost().Amount(),
	}
	s.publish(ctx, event)

	logger.Log.WithFields(logrus.Fields{
		"approved":     len(result.Approved),
		"non_approved": len(result.NonApproved),
		"budget":       result.Budget.String(),
	}).Info("workflow: одобрения рассчитаны")

	return result, s.done("compute_approvals", nil, nil)
}
