package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/events"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

// GetPhase возвращает текущую фазу, при первом обращении создаёт процесс в фазе 0.
func (s *Service) GetPhase(ctx context.Context) (valueobject.Phase, error) {
	round, err := s.rounds.GetOrCreate(ctx)
	if err != nil {
		return 0, s.done("get_phase", err, nil)
	}
	s.metrics.SetPhase(int(round.Phase))
	return round.Phase, nil
}

func (s *Service) GetRound(ctx context.Context) (*entity.Round, error) {
	round, err := s.rounds.GetOrCreate(ctx)
	if err != nil {
		return nil, s.done("get_round", err, nil)
	}
	return round, nil
}

func (s *Service) GetBudget(ctx context.Context) (valueobject.Money, error) {
	round, err := s.rounds.Get(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			err = apperror.ErrBudgetNotFound
		}
		return valueobject.Money{}, s.done("get_budget", err, nil)
	}
	budget, err := round.RequireBudget()
	if err != nil {
		return valueobject.Money{}, s.done("get_budget", err, nil)
	}
	return budget, nil
}

func (s *Service) SetBudget(ctx context.Context, principal entity.Principal, amount float64) (*entity.Round, error) {
	fields := logrus.Fields{"user_id": principal.UserID, "amount": amount}
	if err := requireAdmin(principal); err != nil {
		return nil, s.done("set_budget", err, fields)
	}

	budget, err := valueobject.NewMoney(amount)
	if err != nil {
		return nil, s.done("set_budget", err, fields)
	}

	round, err := s.rounds.SetBudget(ctx, budget)
	if err != nil {
		return nil, s.done("set_budget", err, fields)
	}

	event := events.New(events.TypeBudgetSet, int(round.Phase))
	event.Payload = map[string]float64{"budget": budget.Amount()}
	s.publish(ctx, event)

	logger.Log.WithFields(fields).Info("workflow: бюджет установлен")
	return round, s.done("set_budget", nil, nil)
}

func (s *Service) AdvancePhase(ctx context.Context, principal entity.Principal) (valueobject.Phase, error) {
	fields := logrus.Fields{"user_id": principal.UserID}
	if err := requireAdmin(principal); err != nil {
		return 0, s.done("advance_phase", err, fields)
	}

	phase, err := s.rounds.Advance(ctx)
	if err != nil {
		return 0, s.done("advance_phase", err, fields)
	}

	s.metrics.PhaseAdvanced(int(phase))
	s.publish(ctx, events.New(events.TypePhaseAdvanced, int(phase)))

	logger.Log.WithFields(fields).WithField("phase", phase.String()).Info("workflow: фаза изменена")
	return phase, s.done("advance_phase", nil, nil)
}

// ResetAll удаляет предложения, голоса и сам процесс. Следующий GetPhase вернёт фазу 0.
func (s *Service) ResetAll(ctx context.Context, principal entity.Principal) error {
	fields := logrus.Fields{"user_id": principal.UserID}
	if err := requireAdmin(principal); err != nil {
		return s.done("reset", err, fields)
	}

	if err := s.rounds.Reset(ctx); err != nil {
		return s.done("reset", err, fields)
	}

	s.metrics.SetPhase(int(valueobject.PhaseBudgetDefinition))
	s.publish(ctx, events.New(events.TypeRoundReset, int(valueobject.PhaseBudgetDefinition)))

	logger.Log.WithFields(fields).Warn("workflow: процесс сброшен")
	return s.done("reset", nil, nil)
}
