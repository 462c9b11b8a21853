package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
	"github.com/francescogabrieli/budget-sociale/internal/testutil"
)

func TestRoundRepository_LifeCycle(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	repo := NewRoundRepositoryAdapter(conn)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, apperror.ErrPhaseNotFound)

	round, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PhaseBudgetDefinition, round.Phase)
	assert.Nil(t, round.Budget)

	// повторный вызов не создаёт вторую строку
	_, err = repo.GetOrCreate(ctx)
	require.NoError(t, err)
	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM rounds`))
	assert.Equal(t, 1, count)

	round, err = repo.SetBudget(ctx, valueobject.MoneyFromCents(1000_00))
	require.NoError(t, err)
	assert.Equal(t, int64(1000_00), round.Budget.Cents)

	round, err = repo.SetBudget(ctx, valueobject.MoneyFromCents(1500_00))
	require.NoError(t, err)
	assert.Equal(t, int64(1500_00), round.Budget.Cents)

	for _, want := range []valueobject.Phase{1, 2, 3} {
		phase, err := repo.Advance(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, phase)
	}

	_, err = repo.Advance(ctx)
	assert.True(t, apperror.IsWrongPhase(err))

	round, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PhaseResults, round.Phase)
	assert.Equal(t, int64(1500_00), round.Budget.Cents)
}

func TestRoundRepository_SetBudgetRules(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	repo := NewRoundRepositoryAdapter(conn)
	ctx := context.Background()

	_, err := repo.SetBudget(ctx, valueobject.MoneyFromCents(100))
	assert.ErrorIs(t, err, apperror.ErrPhaseNotFound)

	testutil.SetRound(t, conn, 1, 100)
	_, err = repo.SetBudget(ctx, valueobject.MoneyFromCents(200))
	assert.ErrorIs(t, err, apperror.ErrWrongPhase)

	_, err = repo.SetBudget(ctx, valueobject.MoneyFromCents(0))
	assert.True(t, apperror.IsValidation(err))
}

func TestRoundRepository_AdvanceWithoutRoundCreatesIt(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	repo := NewRoundRepositoryAdapter(conn)
	ctx := context.Background()

	phase, err := repo.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PhaseBudgetDefinition, phase)

	phase, err = repo.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PhaseProposalSubmission, phase)
}

func TestRoundRepository_ResetKeepsUsers(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	repo := NewRoundRepositoryAdapter(conn)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()

	owner := testutil.CreateUser(t, conn, "owner", "Member")
	voter := testutil.CreateUser(t, conn, "voter", "Member")
	testutil.SetRound(t, conn, 1, 1000_00)
	p := newProposal(t, owner, "Parco giochi", 100)
	require.NoError(t, store.Create(ctx, p))
	testutil.SetRound(t, conn, 2, 1000_00)
	require.NoError(t, store.AddVote(ctx, newVote(t, voter, p.ID, 2)))

	require.NoError(t, repo.Reset(ctx))

	for table, want := range map[string]int{"rounds": 0, "proposals": 0, "votes": 0, "users": 2} {
		var count int
		require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM `+table))
		assert.Equal(t, want, count, table)
	}

	round, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PhaseBudgetDefinition, round.Phase)
	assert.Nil(t, round.Budget)
}
