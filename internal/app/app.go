// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/internal/config"
	"github.com/AccelByte/extend-party-duel/internal/server"
	"github.com/AccelByte/extend-party-duel/pkg/chat"
	"github.com/AccelByte/extend-party-duel/pkg/content"
	"github.com/AccelByte/extend-party-duel/pkg/dispatch"
	"github.com/AccelByte/extend-party-duel/pkg/game"
	"github.com/AccelByte/extend-party-duel/pkg/stats"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	chatClient        *chat.Client
	dispatcher        *dispatch.Dispatcher
	contentStore      *content.Store
	metricsServer     *server.MetricsServer
	adminServer       *server.AdminServer
	redisClient       *redis.Client
	shutdownTelemetry func(context.Context) error

	chatCancel context.CancelFunc
	chatDone   chan struct{}
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order: Redis (only when stats
// are enabled), game content, the punishment leaderboard, the command
// dispatcher, the chat client, HTTP servers and finally telemetry.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	var recorder game.Recorder
	var board dispatch.Leaderboard
	if cfg.StatsEnabled {
		if err := app.initRedis(ctx); err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		statsStore := stats.NewStore(app.redisClient, stats.Config{})
		recorder = statsStore
		board = statsStore
	} else {
		logrus.Info("stats disabled, punishment leaderboard unavailable")
	}

	contentStore, err := content.NewStore(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load game content from %s: %w", cfg.ContentPath, err)
	}
	app.contentStore = contentStore

	app.dispatcher = dispatch.New(nil, contentStore, board, dispatch.Config{
		EnabledGroups: cfg.EnabledGroups,
		Session: game.Config{
			MinPlayers: cfg.MinPlayers,
			Recorder:   recorder,
		},
	})

	app.chatClient = chat.NewClient(chat.Config{
		URL:         cfg.ChatEndpoint,
		AccessToken: cfg.ChatAccessToken,
	}, app.dispatcher)
	app.dispatcher.SetMessenger(app.chatClient)

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	app.adminServer = server.NewAdminServer(cfg.AdminPort, cfg.AdminPassword, contentStore)
	if err := app.adminServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup admin server: %w", err)
	}

	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, 5)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}
