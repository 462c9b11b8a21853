// Package workflow фасад процесса бюджетирования: проверяет роль и входные данные,
// затем делегирует хранилищу, которое само следит за фазой.
package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/repository"
	"github.com/francescogabrieli/budget-sociale/internal/events"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
	"github.com/francescogabrieli/budget-sociale/internal/metrics"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

type Service struct {
	rounds    repository.RoundRepository
	proposals repository.ProposalStore
	approvals repository.ApprovalRepository
	planner   entity.ApprovalPlanner
	publisher events.Publisher
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPlanner подменяет алгоритм отбора. По умолчанию entity.PlanApprovals.
func WithPlanner(planner entity.ApprovalPlanner) Option {
	return func(s *Service) {
		if planner != nil {
			s.planner = planner
		}
	}
}

func NewService(
	rounds repository.RoundRepository,
	proposals repository.ProposalStore,
	approvals repository.ApprovalRepository,
	opts ...Option,
) *Service {
	s := &Service{
		rounds:    rounds,
		proposals: proposals,
		approvals: approvals,
		planner:   entity.PlanApprovals,
		publisher: events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireMember(principal entity.Principal) error {
	if principal.UserID <= 0 {
		return apperror.ErrUnauthorized
	}
	return nil
}

func requireAdmin(principal entity.Principal) error {
	if err := requireMember(principal); err != nil {
		return err
	}
	if !principal.IsAdmin() {
		return apperror.ErrForbidden
	}
	return nil
}

// done пишет метрику операции и логирует неудачу. Ошибка возвращается без изменений.
func (s *Service) done(op string, err error, fields logrus.Fields) error {
	s.metrics.ObserveOperation(op, err)
	if err == nil {
		return nil
	}

	entry := logger.Log.WithField("operation", op).WithFields(fields).WithError(err)
	if apperror.IsInternal(err) {
		entry.Error("workflow: операция завершилась ошибкой хранилища")
	} else {
		entry.Info("workflow: операция отклонена")
	}
	return err
}

// publish отправляет событие после фиксации. Ошибка доставки только логируется.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"event_type": event.Type,
			"event_id":   event.ID,
		}).WithError(err).Warn("workflow: не удалось опубликовать событие")
	}
}
