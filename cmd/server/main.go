package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/francescogabrieli/budget-sociale/internal/config"
	"github.com/francescogabrieli/budget-sociale/internal/db"
	"github.com/francescogabrieli/budget-sociale/internal/events"
	httpHandlers "github.com/francescogabrieli/budget-sociale/internal/http/handlers"
	httpRouter "github.com/francescogabrieli/budget-sociale/internal/http/router"
	"github.com/francescogabrieli/budget-sociale/internal/infrastructure/persistence"
	"github.com/francescogabrieli/budget-sociale/internal/interface/http/handler"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
	"github.com/francescogabrieli/budget-sociale/internal/metrics"
	"github.com/francescogabrieli/budget-sociale/internal/service"
	"github.com/francescogabrieli/budget-sociale/internal/usecase/workflow"
	"github.com/francescogabrieli/budget-sociale/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}
	mainLog := logger.WithComponent("main")

	// Миграции применяются до открытия пула.
	if err := db.RunMigrations(cfg.DBDriver, cfg.DataSource()); err != nil {
		mainLog.WithError(err).Fatal("ошибка миграций")
	}

	dbConn, err := db.Open(ctx, cfg.DBDriver, cfg.DataSource())
	if err != nil {
		mainLog.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	m := metrics.New()
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Доставка событий: websocket всегда, AMQP если задан адрес брокера.
	hub := ws.NewHub()
	publishers := events.Fanout{hub}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			mainLog.WithError(err).Fatal("ошибка подключения к AMQP")
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				mainLog.WithError(err).Warn("ошибка закрытия AMQP")
			}
		}()
		publishers = append(publishers, amqpPublisher)
	}

	// Репозитории и сервисы.
	userRepo := persistence.NewUserRepositoryAdapter(dbConn)
	authService := service.NewAuthService(userRepo, tokenManager)
	workflowService := workflow.NewService(
		persistence.NewRoundRepositoryAdapter(dbConn),
		persistence.NewProposalStoreAdapter(dbConn),
		persistence.NewApprovalRepositoryAdapter(dbConn),
		workflow.WithPublisher(publishers),
		workflow.WithMetrics(m),
	)

	if phase, err := workflowService.GetPhase(ctx); err != nil {
		mainLog.WithError(err).Fatal("не удалось прочитать состояние процесса")
	} else {
		mainLog.WithField("phase", phase.String()).Info("процесс загружен")
	}

	engine := httpRouter.SetupRouter(cfg, m, tokenManager, httpRouter.Handlers{
		Health:   httpHandlers.NewHealthHandler(dbConn),
		WS:       httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Auth:     handler.NewAuthHandler(authService),
		Round:    handler.NewRoundHandler(workflowService),
		Proposal: handler.NewProposalHandler(workflowService),
		Vote:     handler.NewVoteHandler(workflowService),
		Approval: handler.NewApprovalHandler(workflowService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		mainLog.WithField("port", cfg.HTTPPort).WithField("driver", cfg.DBDriver).Info("HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Завершаем сервер при получении сигнала или падении соседней горутины.
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		mainLog.WithError(err).Error("сервер завершился с ошибкой")
		return
	}
	mainLog.Info("сервер остановлен")
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Warn("main: ошибка закрытия базы")
	}
}
