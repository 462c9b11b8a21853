package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/francescogabrieli/budget-sociale/internal/config"
	"github.com/francescogabrieli/budget-sociale/internal/db"
	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/infrastructure/persistence"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
	"github.com/francescogabrieli/budget-sociale/internal/service"
	"github.com/francescogabrieli/budget-sociale/internal/usecase/workflow"
)

type rootOptions struct {
	as string
}

// app зависимости одной команды. Открывается на время команды и закрывается после.
type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	users    *persistence.UserRepositoryAdapter
	auth     *service.AuthService
	workflow *workflow.Service
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)
	logger.SetTextFormatter()
	return cfg, nil
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DataSource())
	if err != nil {
		return nil, err
	}

	users := persistence.NewUserRepositoryAdapter(conn)
	return &app{
		cfg:   cfg,
		db:    conn,
		users: users,
		auth:  service.NewAuthService(users, service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)),
		workflow: workflow.NewService(
			persistence.NewRoundRepositoryAdapter(conn),
			persistence.NewProposalStoreAdapter(conn),
			persistence.NewApprovalRepositoryAdapter(conn),
		),
	}, nil
}

func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.db.Close()
	return fn(a)
}

// principal находит учётную запись, от имени которой выполняется команда.
func (a *app) principal(ctx context.Context, username string) (entity.Principal, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("пользователь %q: %w", username, err)
	}
	return user.Principal(), nil
}
