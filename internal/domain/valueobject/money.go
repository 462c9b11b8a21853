package valueobject

import (
	"fmt"
	"math"

	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

// MaxAmount верхняя граница суммы, чтобы центы гарантированно помещались в int64.
const MaxAmount = 1_000_000_000_000.0

// Money хранит сумму в центах, чтобы жадный отбор не страдал от ошибок округления float.
type Money struct {
	Cents int64
}

func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.Validation("сумма должна быть числом")
	}
	if amount > MaxAmount {
		return Money{}, apperror.Validation("сумма слишком велика")
	}
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return Money{}, apperror.Validation("сумма должна быть положительной")
	}
	return Money{Cents: cents}, nil
}

func MoneyFromCents(cents int64) Money {
	return Money{Cents: cents}
}

func (m Money) Amount() float64 {
	return float64(m.Cents) / 100
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) IsPositive() bool {
	return m.Cents > 0
}

func (m Money) GreaterThan(other Money) bool {
	return m.Cents > other.Cents
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Amount())
}
