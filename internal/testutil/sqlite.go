// Package testutil поднимает временную SQLite-базу со всеми миграциями для тестов.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/francescogabrieli/budget-sociale/internal/db"
)

// NewSQLiteDB создаёт файл базы во временном каталоге теста и применяет миграции.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budget.db")
	require.NoError(t, db.RunMigrations(db.DriverSQLite, path))

	conn, err := db.NewSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// CreateUser вставляет пользователя напрямую и возвращает его id.
func CreateUser(t testing.TB, conn *sqlx.DB, username, role string) int64 {
	t.Helper()

	var id int64
	query := `
		INSERT INTO users (username, name, surname, role, password_hash)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	err := conn.QueryRowxContext(context.Background(), conn.Rebind(query),
		username, "Nome", "Cognome", role, "x",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// SetRound выставляет фазу и бюджет в обход конечного автомата.
func SetRound(t testing.TB, conn *sqlx.DB, phase int, budgetCents int64) {
	t.Helper()

	ctx := context.Background()
	_, err := conn.ExecContext(ctx, `DELETE FROM rounds`)
	require.NoError(t, err)

	var budget interface{}
	if budgetCents > 0 {
		budget = budgetCents
	}
	_, err = conn.ExecContext(ctx, conn.Rebind(`INSERT INTO rounds (id, phase, budget_cents) VALUES (1, ?, ?)`), phase, budget)
	require.NoError(t, err)
}
