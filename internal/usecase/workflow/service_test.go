package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/events"
	"github.com/francescogabrieli/budget-sociale/internal/metrics"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

type mockRoundRepository struct {
	mock.Mock
}

func (m *mockRoundRepository) GetOrCreate(ctx context.Context) (*entity.Round, error) {
	args := m.Called(ctx)
	round, _ := args.Get(0).(*entity.Round)
	return round, args.Error(1)
}

func (m *mockRoundRepository) Get(ctx context.Context) (*entity.Round, error) {
	args := m.Called(ctx)
	round, _ := args.Get(0).(*entity.Round)
	return round, args.Error(1)
}

func (m *mockRoundRepository) SetBudget(ctx context.Context, amount valueobject.Money) (*entity.Round, error) {
	args := m.Called(ctx, amount)
	round, _ := args.Get(0).(*entity.Round)
	return round, args.Error(1)
}

func (m *mockRoundRepository) Advance(ctx context.Context) (valueobject.Phase, error) {
	args := m.Called(ctx)
	return args.Get(0).(valueobject.Phase), args.Error(1)
}

func (m *mockRoundRepository) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockProposalStore struct {
	mock.Mock
}

func (m *mockProposalStore) Create(ctx context.Context, p *entity.Proposal) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProposalStore) Update(ctx context.Context, p *entity.Proposal) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProposalStore) Delete(ctx context.Context, id, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockProposalStore) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Proposal, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]*entity.Proposal)
	return list, args.Error(1)
}

func (m *mockProposalStore) ListAll(ctx context.Context) ([]*entity.Proposal, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entity.Proposal)
	return list, args.Error(1)
}

func (m *mockProposalStore) AddVote(ctx context.Context, v *entity.Vote) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockProposalStore) DeleteVote(ctx context.Context, userID, proposalID int64) error {
	return m.Called(ctx, userID, proposalID).Error(0)
}

func (m *mockProposalStore) ListVotesByUser(ctx context.Context, userID int64) ([]*entity.VoteDetail, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*entity.VoteDetail)
	return list, args.Error(1)
}

type mockApprovalRepository struct {
	mock.Mock
}

func (m *mockApprovalRepository) Apply(ctx context.Context, planner entity.ApprovalPlanner) (*entity.ApprovalResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*entity.ApprovalResult)
	return result, args.Error(1)
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

var (
	admin  = entity.Principal{UserID: 1, Role: valueobject.RoleAdmin}
	member = entity.Principal{UserID: 2, Role: valueobject.RoleMember}
)

func newTestService() (*Service, *mockRoundRepository, *mockProposalStore, *mockApprovalRepository, *recordingPublisher) {
	rounds := new(mockRoundRepository)
	store := new(mockProposalStore)
	approvals := new(mockApprovalRepository)
	publisher := &recordingPublisher{}
	svc := NewService(rounds, store, approvals, WithPublisher(publisher), WithMetrics(metrics.New()))
	return svc, rounds, store, approvals, publisher
}

func TestService_AdminOnlyOperations(t *testing.T) {
	svc, rounds, _, _, publisher := newTestService()
	ctx := context.Background()

	_, err := svc.SetBudget(ctx, member, 100)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.AdvancePhase(ctx, member)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.ResetAll(ctx, member)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.ResetAll(ctx, entity.Principal{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	rounds.AssertNotCalled(t, "SetBudget", mock.Anything, mock.Anything)
	rounds.AssertNotCalled(t, "Advance", mock.Anything)
	rounds.AssertNotCalled(t, "Reset", mock.Anything)
	assert.Empty(t, publisher.events)
}

func TestService_SetBudget(t *testing.T) {
	svc, rounds, _, _, publisher := newTestService()
	ctx := context.Background()

	budget := valueobject.MoneyFromCents(2500_50)
	rounds.On("SetBudget", ctx, budget).Return(&entity.Round{Phase: 0, Budget: &budget}, nil).Once()

	round, err := svc.SetBudget(ctx, admin, 2500.50)
	require.NoError(t, err)
	assert.Equal(t, budget, *round.Budget)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.TypeBudgetSet, publisher.events[0].Type)

	_, err = svc.SetBudget(ctx, admin, -1)
	assert.True(t, apperror.IsValidation(err))
	rounds.AssertExpectations(t)
}

func TestService_AdvancePhase(t *testing.T) {
	svc, rounds, _, _, publisher := newTestService()
	ctx := context.Background()

	rounds.On("Advance", ctx).Return(valueobject.PhaseVoting, nil).Once()
	rounds.On("Advance", ctx).Return(valueobject.Phase(0), apperror.ErrFinalPhase).Once()

	phase, err := svc.AdvancePhase(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PhaseVoting, phase)

	_, err = svc.AdvancePhase(ctx, admin)
	assert.True(t, apperror.IsWrongPhase(err))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, int(valueobject.PhaseVoting), publisher.events[0].Phase)
}

func TestService_PublishFailureDoesNotFailOperation(t *testing.T) {
	svc, rounds, _, _, publisher := newTestService()
	publisher.err = errors.New("broker unavailable")
	ctx := context.Background()

	rounds.On("Reset", ctx).Return(nil).Once()

	assert.NoError(t, svc.ResetAll(ctx, admin))
	assert.Len(t, publisher.events, 1)
}

func TestService_GetBudget(t *testing.T) {
	svc, rounds, _, _, _ := newTestService()
	ctx := context.Background()

	rounds.On("Get", ctx).Return(nil, apperror.ErrPhaseNotFound).Once()
	_, err := svc.GetBudget(ctx)
	assert.ErrorIs(t, err, apperror.ErrBudgetNotFound)

	rounds.On("Get", ctx).Return(&entity.Round{Phase: 0}, nil).Once()
	_, err = svc.GetBudget(ctx)
	assert.ErrorIs(t, err, apperror.ErrBudgetNotFound)

	budget := valueobject.MoneyFromCents(100)
	rounds.On("Get", ctx).Return(&entity.Round{Phase: 1, Budget: &budget}, nil).Once()
	got, err := svc.GetBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, budget, got)
}

func TestService_InvalidInputNeverReachesStore(t *testing.T) {
	svc, _, store, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddProposal(ctx, member, "Parco 2000", 10)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.AddProposal(ctx, member, "Parco", 0)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpdateProposal(ctx, member, 5, "", 10)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Vote(ctx, member, 5, 4)
	assert.True(t, apperror.IsValidation(err))

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "AddVote", mock.Anything, mock.Anything)
}

func TestService_AddProposal(t *testing.T) {
	svc, _, store, _, publisher := newTestService()
	ctx := context.Background()

	store.On("Create", ctx, mock.MatchedBy(func(p *entity.Proposal) bool {
		return p.OwnerID == member.UserID && p.Description == "Parco giochi" && p.Cost.Cents == 1200
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Proposal).ID = 77
	}).Return(nil).Once()

	p, err := svc.AddProposal(ctx, member, " Parco giochi ", 12)
	require.NoError(t, err)
	assert.Equal(t, int64(77), p.ID)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, int64(77), publisher.events[0].ProposalID)
	store.AssertExpectations(t)
}

func TestService_StoreErrorsPassThrough(t *testing.T) {
	svc, _, store, _, publisher := newTestService()
	ctx := context.Background()

	store.On("Delete", ctx, int64(9), member.UserID).Return(apperror.ErrWrongPhase).Once()
	store.On("AddVote", ctx, mock.Anything).Return(apperror.ErrAlreadyVoted).Once()
	store.On("DeleteVote", ctx, member.UserID, int64(9)).Return(apperror.ErrVoteNotFound).Once()

	assert.ErrorIs(t, svc.DeleteProposal(ctx, member, 9), apperror.ErrWrongPhase)
	_, err := svc.Vote(ctx, member, 9, 2)
	assert.ErrorIs(t, err, apperror.ErrAlreadyVoted)
	assert.ErrorIs(t, svc.DeleteVote(ctx, member, 9), apperror.ErrVoteNotFound)

	assert.Empty(t, publisher.events)
}

func TestService_ListVotesByUserOnlySelf(t *testing.T) {
	svc, _, store, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ListVotesByUser(ctx, member, admin.UserID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	store.On("ListVotesByUser", ctx, member.UserID).Return([]*entity.VoteDetail{{Vote: entity.Vote{UserID: member.UserID, ProposalID: 3, Score: 2}}}, nil).Once()
	votes, err := svc.ListVotesByUser(ctx, member, member.UserID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestService_ComputeApprovals(t *testing.T) {
	svc, _, _, approvals, publisher := newTestService()
	ctx := context.Background()

	result := &entity.ApprovalResult{
		Budget:   valueobject.MoneyFromCents(100_00),
		Approved: []entity.ApprovedProposal{{ProposalID: 1, Cost: valueobject.MoneyFromCents(60_00), TotalScore: 5}},
	}
	approvals.On("Apply", ctx).Return(result, nil).Once()
	approvals.On("Apply", ctx).Return(nil, apperror.ErrWrongPhase).Once()

	got, err := svc.ComputeApprovals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.ApprovedIDs())
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.TypeApprovalsComputed, publisher.events[0].Type)

	_, err = svc.ComputeApprovals(ctx)
	assert.ErrorIs(t, err, apperror.ErrWrongPhase)
}
