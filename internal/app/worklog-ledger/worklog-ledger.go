package worklogledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/worklog-ledger/internal/cache"
	"github.com/magabrotheeeer/worklog-ledger/internal/config"
	healthhandler "github.com/magabrotheeeer/worklog-ledger/internal/http/handlers/health"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/worklog-ledger/internal/migrations"
	"github.com/magabrotheeeer/worklog-ledger/internal/rabbitmq"
	accessservice "github.com/magabrotheeeer/worklog-ledger/internal/services/access"
	authservice "github.com/magabrotheeeer/worklog-ledger/internal/services/auth"
	ledgerservice "github.com/magabrotheeeer/worklog-ledger/internal/services/ledger"
	profileservice "github.com/magabrotheeeer/worklog-ledger/internal/services/profile"
	queryservice "github.com/magabrotheeeer/worklog-ledger/internal/services/query"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"

	"github.com/streadway/amqp"
)

// App собирает HTTP-сервер учёта и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	rabbit *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует хранилище, кеш, брокер сообщений, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.ConnectDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewNotificationPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	accessService := accessservice.New(db, logger)
	profileService := profileservice.New(db, accessService, cacheRedis, logger)
	ledgerService := ledgerservice.New(db, db, cacheRedis, publisher, logger)
	queryService := queryservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, accessService, profileService, ledgerService, queryService)
	router.Get("/health", healthhandler.New(logger, db, conn, cacheRedis).ServeHTTP)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		rabbit: conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.rabbit.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
