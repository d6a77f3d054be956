// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/content"
)

// AdminServer exposes the operator surface: inspecting the loaded game
// content and reloading it from disk. All endpoints require the admin
// password; with no password configured the surface is disabled.
type AdminServer struct {
	server   *http.Server
	port     int
	password string
	store    *content.Store
}

// NewAdminServer creates a new admin server instance.
func NewAdminServer(port int, password string, store *content.Store) *AdminServer {
	return &AdminServer{
		port:     port,
		password: password,
		store:    store,
	}
}

// Setup configures the admin routes.
func (a *AdminServer) Setup() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/content", a.authed(a.handleGetContent))
	mux.HandleFunc("/reload", a.authed(a.handleReload))

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: mux,
	}

	return nil
}

func (a *AdminServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.password == "" {
			http.Error(w, "admin surface disabled", http.StatusForbidden)
			return
		}
		if r.Header.Get("X-Admin-Password") != a.password {
			http.Error(w, "invalid admin password", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (a *AdminServer) handleGetContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.store.Snapshot()); err != nil {
		logrus.Errorf("failed to encode content: %v", err)
	}
}

func (a *AdminServer) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := a.store.Reload(); err != nil {
		logrus.Errorf("content reload failed: %v", err)
		http.Error(w, fmt.Sprintf("reload failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start begins serving the admin surface on the configured port.
func (a *AdminServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("admin server listening on port %d", a.port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("admin server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the admin server.
func (a *AdminServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down admin server...")
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("admin server stopped")
	return nil
}
