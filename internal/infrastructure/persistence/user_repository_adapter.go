package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

type UserRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUserRepositoryAdapter(db *sqlx.DB) *UserRepositoryAdapter {
	return &UserRepositoryAdapter{db: db}
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, name, surname, role, password_hash)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		user.Username, user.Name, user.Surname, string(user.Role), user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrUserExists
		}
		return apperror.Storage(err, "не удалось создать пользователя")
	}
	return nil
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

func (r *UserRepositoryAdapter) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE username = ?`, strings.TrimSpace(username))
}

func (r *UserRepositoryAdapter) findOne(ctx context.Context, where string, arg interface{}) (*entity.User, error) {
	var row userRow
	query := `SELECT id, username, name, surname, role, password_hash FROM users ` + where
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Storage(err, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Name         string `db:"name"`
	Surname      string `db:"surname"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
}

func (u *userRow) toEntity() *entity.User {
	return &entity.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Surname:      u.Surname,
		Role:         valueobject.Role(u.Role),
		PasswordHash: u.PasswordHash,
	}
}
