package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

func TestNewProposal(t *testing.T) {
	p, err := NewProposal(7, "  Nuove panchine nel parco ", 120.5)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.OwnerID)
	assert.Equal(t, "Nuove panchine nel parco", p.Description)
	assert.Equal(t, int64(12050), p.Cost.Cents)
	assert.False(t, p.Approved)
}

func TestNewProposal_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		owner       int64
		description string
		cost        float64
	}{
		{"без владельца", 0, "Parco", 10},
		{"пустое описание", 1, "", 10},
		{"цифры в описании", 1, "Parco 2", 10},
		{"нулевая стоимость", 1, "Parco", 0},
		{"отрицательная стоимость", 1, "Parco", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProposal(tt.owner, tt.description, tt.cost)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestProposal_FitsBudget(t *testing.T) {
	p, err := NewProposal(1, "Biblioteca", 100)
	require.NoError(t, err)

	assert.True(t, p.FitsBudget(valueobject.MoneyFromCents(100_00)))
	assert.False(t, p.FitsBudget(valueobject.MoneyFromCents(99_99)))
	assert.True(t, p.IsOwnedBy(1))
	assert.False(t, p.IsOwnedBy(2))
}

func TestNewVote(t *testing.T) {
	v, err := NewVote(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Score(3), v.Score)

	_, err = NewVote(1, 2, 4)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewVote(1, 2, 0)
	assert.True(t, apperror.IsValidation(err))
}

func TestRound_RequireBudget(t *testing.T) {
	_, err := Round{}.RequireBudget()
	assert.ErrorIs(t, err, apperror.ErrBudgetNotFound)

	budget := valueobject.MoneyFromCents(500)
	got, err := Round{Budget: &budget}.RequireBudget()
	require.NoError(t, err)
	assert.Equal(t, budget, got)
}
