// Package events описывает события процесса и способы их доставки (websocket, AMQP).
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBudgetSet         Type = "budget.set"
	TypePhaseAdvanced     Type = "phase.advanced"
	TypeRoundReset        Type = "round.reset"
	TypeProposalCreated   Type = "proposal.created"
	TypeProposalUpdated   Type = "proposal.updated"
	TypeProposalDeleted   Type = "proposal.deleted"
	TypeApprovalsComputed Type = "approvals.computed"
)

// Event сообщение о зафиксированном изменении процесса.
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	Phase      int         `json:"phase"`
	ProposalID int64       `json:"proposal_id,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func New(eventType Type, phase int) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Phase:      phase,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Fanout рассылает событие всем получателям и собирает их ошибки.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop ничего не отправляет.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
