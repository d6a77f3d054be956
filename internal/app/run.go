// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	if err := a.metricsServer.Start(ctx); err != nil {
		return err
	}
	if err := a.adminServer.Start(ctx); err != nil {
		return err
	}

	chatCtx, cancel := context.WithCancel(ctx)
	a.chatCancel = cancel
	a.chatDone = make(chan struct{})
	go func() {
		defer close(a.chatDone)
		if err := a.chatClient.Run(chatCtx); err != nil && chatCtx.Err() == nil {
			logrus.Errorf("chat client stopped: %v", err)
		}
	}()

	logrus.Info("application started successfully")

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all application components.
//
// Components are shut down in reverse dependency order: the chat client
// stops first so no new commands arrive, then the HTTP servers, then
// external connections, then telemetry flushes. Shutdown errors are logged
// but don't stop the sequence.
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	if a.chatCancel != nil {
		a.chatCancel()
		select {
		case <-a.chatDone:
		case <-time.After(5 * time.Second):
			logrus.Warn("chat client did not stop in time")
		}
	}

	if err := a.adminServer.Shutdown(ctx); err != nil {
		logrus.Errorf("admin server shutdown error: %v", err)
	}
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
	}

	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}
