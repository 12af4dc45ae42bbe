// Package planoraapi собирает API-сервер: хранилище, миграции, кеш,
// брокер сообщений, сервисы и HTTP-маршруты.
package planoraapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/planora/planora-api/internal/cache"
	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/http/graphql"
	"github.com/planora/planora-api/internal/lib/jwt"
	"github.com/planora/planora-api/internal/lib/rabbitmq"
	"github.com/planora/planora-api/internal/lib/sl"
	"github.com/planora/planora-api/internal/migrations"
	authservice "github.com/planora/planora-api/internal/services/auth"
	bookingservice "github.com/planora/planora-api/internal/services/booking"
	eventservice "github.com/planora/planora-api/internal/services/event"
	meetingservice "github.com/planora/planora-api/internal/services/meeting"
	userservice "github.com/planora/planora-api/internal/services/user"
	"github.com/planora/planora-api/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is not configured")
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер недоступен — работаем без уведомлений.
	var conn *amqp.Connection
	var ch *amqp.Channel
	var publish rabbitmq.Publisher
	conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.ConnectRetries, cfg.ConnectRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, booking notifications disabled", sl.Err(err))
	} else {
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			conn.Close()
			return nil, err
		}
		channel := ch
		publish = func(exchange, routingKey string, message any) error {
			return rabbitmq.PublishMessage(channel, exchange, routingKey, message)
		}
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker, cfg.HashCost)
	userService := userservice.New(db, db)
	meetingService := meetingservice.New(db, db)
	eventService := eventservice.New(db, db, db, cacheRedis, logger)
	bookingService := bookingservice.New(db, db, db, publish, logger)

	resolver := graphql.NewResolver(authService, userService, meetingService,
		eventService, bookingService, logger)
	schema, err := graphql.NewSchema(resolver)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, schema, jwtMaker, db)

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
		conn:   conn,
		ch:     ch,
	}, nil
}

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
		if a.ch != nil {
			_ = a.ch.Close()
		}
		if a.conn != nil {
			_ = a.conn.Close()
		}
		a.db.DB.Close()
		return err
	}
}
