package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
	"github.com/francescogabrieli/budget-sociale/internal/testutil"
)

func newProposal(t *testing.T, owner int64, description string, cost float64) *entity.Proposal {
	t.Helper()
	p, err := entity.NewProposal(owner, description, cost)
	require.NoError(t, err)
	return p
}

func newVote(t *testing.T, user, proposal int64, score int) *entity.Vote {
	t.Helper()
	v, err := entity.NewVote(user, proposal, score)
	require.NoError(t, err)
	return v
}

func TestProposalStore_CreateAndList(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()

	owner := testutil.CreateUser(t, conn, "anna", "Member")
	other := testutil.CreateUser(t, conn, "luca", "Member")
	testutil.SetRound(t, conn, 1, 500_00)

	first := newProposal(t, owner, "Pista ciclabile", 300)
	second := newProposal(t, other, "Fontana in piazza", 120)
	third := newProposal(t, owner, "Orto urbano", 80)
	for _, p := range []*entity.Proposal{first, second, third} {
		require.NoError(t, store.Create(ctx, p))
		assert.NotZero(t, p.ID)
	}

	mine, err := store.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, third.ID, mine[1].ID)
	assert.False(t, mine[0].Approved)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	none, err := store.ListByOwner(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProposalStore_CreateRules(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")

	err := store.Create(ctx, newProposal(t, owner, "Parco", 10))
	assert.ErrorIs(t, err, apperror.ErrWrongPhase, "процесс ещё не создан")

	testutil.SetRound(t, conn, 1, 0)
	err = store.Create(ctx, newProposal(t, owner, "Parco", 10))
	assert.ErrorIs(t, err, apperror.ErrBudgetNotFound)

	testutil.SetRound(t, conn, 1, 100_00)
	err = store.Create(ctx, newProposal(t, owner, "Parco", 100.01))
	assert.ErrorIs(t, err, apperror.ErrCostExceedsBudget)

	require.NoError(t, store.Create(ctx, newProposal(t, owner, "Parco", 100)))

	testutil.SetRound(t, conn, 2, 100_00)
	err = store.Create(ctx, newProposal(t, owner, "Parco", 10))
	assert.ErrorIs(t, err, apperror.ErrWrongPhase)
}

func TestProposalStore_QuotaOfThree(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	testutil.SetRound(t, conn, 1, 1000_00)

	var ids []int64
	for i := 0; i < 3; i++ {
		p := newProposal(t, owner, "Proposta", 10)
		require.NoError(t, store.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	err := store.Create(ctx, newProposal(t, owner, "Quarta proposta", 10))
	assert.ErrorIs(t, err, apperror.ErrTooManyProposals)

	// после удаления слот освобождается
	require.NoError(t, store.Delete(ctx, ids[1], owner))
	require.NoError(t, store.Create(ctx, newProposal(t, owner, "Di nuovo", 10)))

	mine, err := store.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestProposalStore_QuotaUnderConcurrency(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	testutil.SetRound(t, conn, 1, 1000_00)

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := entity.NewProposal(owner, "Proposta concorrente", 5)
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = store.Create(ctx, p)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrTooManyProposals)
	}
	assert.Equal(t, entity.MaxProposalsPerOwner, succeeded)

	var count int
	require.NoError(t, conn.Get(&count, conn.Rebind(`SELECT COUNT(*) FROM proposals WHERE owner_id = ?`), owner))
	assert.Equal(t, entity.MaxProposalsPerOwner, count)
}

func TestProposalStore_SlotCollisionRetries(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	testutil.SetRound(t, conn, 1, 500_00)

	require.NoError(t, store.Create(ctx, newProposal(t, owner, "Pista ciclabile", 100)))

	// первая попытка берёт уже занятый слот, как проигравшая гонку вставка
	calls := 0
	store.pickSlot = func(used []int) int {
		calls++
		if calls == 1 {
			return 1
		}
		return freeSlot(used)
	}

	p := newProposal(t, owner, "Orto urbano", 80)
	require.NoError(t, store.Create(ctx, p))
	assert.Equal(t, 2, calls)

	var slot int
	require.NoError(t, conn.Get(&slot, conn.Rebind(`SELECT slot FROM proposals WHERE id = ?`), p.ID))
	assert.Equal(t, 2, slot)
}

func TestProposalStore_SlotCollisionGivesUp(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	testutil.SetRound(t, conn, 1, 500_00)

	require.NoError(t, store.Create(ctx, newProposal(t, owner, "Pista ciclabile", 100)))

	calls := 0
	store.pickSlot = func([]int) int {
		calls++
		return 1
	}

	err := store.Create(ctx, newProposal(t, owner, "Orto urbano", 80))
	assert.ErrorIs(t, err, apperror.ErrTooManyProposals)
	assert.Equal(t, maxSlotAttempts, calls)

	var count int
	require.NoError(t, conn.Get(&count, conn.Rebind(`SELECT COUNT(*) FROM proposals WHERE owner_id = ?`), owner))
	assert.Equal(t, 1, count)
}

func TestProposalStore_UpdateAndDelete(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	intruder := testutil.CreateUser(t, conn, "marco", "Member")
	testutil.SetRound(t, conn, 1, 200_00)

	p := newProposal(t, owner, "Panchine", 50)
	require.NoError(t, store.Create(ctx, p))

	require.NoError(t, p.Change("Panchine nuove", 75))
	require.NoError(t, store.Update(ctx, p))

	var stored proposalRow
	require.NoError(t, conn.Get(&stored, conn.Rebind(selectProposalsQuery+` WHERE id = ?`), p.ID))
	assert.Equal(t, "Panchine nuove", stored.Description)
	assert.Equal(t, int64(75_00), stored.CostCents)

	foreign := *p
	foreign.OwnerID = intruder
	assert.ErrorIs(t, store.Update(ctx, &foreign), apperror.ErrNotOwner)
	assert.ErrorIs(t, store.Delete(ctx, p.ID, intruder), apperror.ErrNotOwner)

	missing := *p
	missing.ID = 9999
	assert.ErrorIs(t, store.Update(ctx, &missing), apperror.ErrProposalNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 9999, owner), apperror.ErrProposalNotFound)

	require.NoError(t, p.Change("Panchine d'oro", 250))
	assert.ErrorIs(t, store.Update(ctx, p), apperror.ErrCostExceedsBudget)

	testutil.SetRound(t, conn, 2, 200_00)
	assert.ErrorIs(t, store.Delete(ctx, p.ID, owner), apperror.ErrWrongPhase)

	testutil.SetRound(t, conn, 1, 200_00)
	require.NoError(t, store.Delete(ctx, p.ID, owner))
	assert.ErrorIs(t, store.Delete(ctx, p.ID, owner), apperror.ErrProposalNotFound)

	_, err := store.ListAll(ctx)
	assert.ErrorIs(t, err, apperror.ErrNoProposals)
}

func TestProposalStore_Votes(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	voter := testutil.CreateUser(t, conn, "luca", "Member")
	testutil.SetRound(t, conn, 1, 200_00)

	p := newProposal(t, owner, "Biblioteca", 50)
	require.NoError(t, store.Create(ctx, p))

	err := store.AddVote(ctx, newVote(t, voter, p.ID, 2))
	assert.ErrorIs(t, err, apperror.ErrWrongPhase)

	testutil.SetRound(t, conn, 2, 200_00)

	_, err = store.ListVotesByUser(ctx, voter)
	assert.ErrorIs(t, err, apperror.ErrNoVotes)

	require.NoError(t, store.AddVote(ctx, newVote(t, voter, p.ID, 2)))
	assert.ErrorIs(t, store.AddVote(ctx, newVote(t, voter, p.ID, 3)), apperror.ErrAlreadyVoted)
	assert.ErrorIs(t, store.AddVote(ctx, newVote(t, owner, p.ID, 3)), apperror.ErrVoteOwnProposal)
	assert.ErrorIs(t, store.AddVote(ctx, newVote(t, voter, 9999, 3)), apperror.ErrProposalNotFound)

	votes, err := store.ListVotesByUser(ctx, voter)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, p.ID, votes[0].ProposalID)
	assert.Equal(t, "Biblioteca", votes[0].Description)
	assert.EqualValues(t, 2, votes[0].Score)

	assert.ErrorIs(t, store.DeleteVote(ctx, owner, p.ID), apperror.ErrVoteNotFound)
	require.NoError(t, store.DeleteVote(ctx, voter, p.ID))
	assert.ErrorIs(t, store.DeleteVote(ctx, voter, p.ID), apperror.ErrVoteNotFound)

	testutil.SetRound(t, conn, 3, 200_00)
	assert.ErrorIs(t, store.DeleteVote(ctx, voter, p.ID), apperror.ErrWrongPhase)
}

func TestProposalStore_OneVotePerPairUnderConcurrency(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	voter := testutil.CreateUser(t, conn, "luca", "Member")
	testutil.SetRound(t, conn, 1, 200_00)
	p := newProposal(t, owner, "Biblioteca", 50)
	require.NoError(t, store.Create(ctx, p))
	testutil.SetRound(t, conn, 2, 200_00)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.AddVote(ctx, &entity.Vote{UserID: voter, ProposalID: p.ID, Score: 1})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrAlreadyVoted)
	}
	assert.Equal(t, 1, succeeded)
}

func TestProposalStore_VotesCascadeWithProposal(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	store := NewProposalStoreAdapter(conn)
	ctx := context.Background()
	owner := testutil.CreateUser(t, conn, "anna", "Member")
	voter := testutil.CreateUser(t, conn, "luca", "Member")
	testutil.SetRound(t, conn, 1, 200_00)
	p := newProposal(t, owner, "Biblioteca", 50)
	require.NoError(t, store.Create(ctx, p))
	testutil.SetRound(t, conn, 2, 200_00)
	require.NoError(t, store.AddVote(ctx, newVote(t, voter, p.ID, 3)))

	testutil.SetRound(t, conn, 1, 200_00)
	require.NoError(t, store.Delete(ctx, p.ID, owner))

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM votes`))
	assert.Zero(t, count)
}
