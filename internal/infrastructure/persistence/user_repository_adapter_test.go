package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
	"github.com/francescogabrieli/budget-sociale/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	conn := testutil.NewSQLiteDB(t)
	repo := NewUserRepositoryAdapter(conn)
	ctx := context.Background()

	user := &entity.User{
		Username:     "giulia",
		Name:         "Giulia",
		Surname:      "Bianchi",
		Role:         valueobject.RoleAdmin,
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byName, err := repo.FindByUsername(ctx, " giulia ")
	require.NoError(t, err)
	assert.Equal(t, user, byName)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleAdmin, byID.Role)

	duplicate := *user
	duplicate.ID = 0
	assert.ErrorIs(t, repo.Create(ctx, &duplicate), apperror.ErrUserExists)

	_, err = repo.FindByUsername(ctx, "nessuno")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}
