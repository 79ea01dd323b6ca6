// Package main starts the in-memory development server implementing the
// nanolink API boundary: auth, shorten, activity, resolve, click
// tracking and redirecting.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/config"
	"github.com/nanolink/nanolink/internal/logger"
	"github.com/nanolink/nanolink/internal/server/handler/http"
	"github.com/nanolink/nanolink/internal/service"
	"github.com/nanolink/nanolink/internal/storage"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// All server state lives in memory.
	store := storage.NewMemoryStore()

	// Periodically deactivate links whose expiry has passed.
	storage.StartExpirySweeper(context.Background(), store, time.Minute, zapLogger)

	// Initialize business-logic services.
	authService := service.NewAuthService(store)
	linkService := service.NewLinkService(store, options.LinkBaseURL)

	// Create HTTP handlers for auth and link endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	linkHandler := &http.LinkHandler{LinkService: linkService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, linkHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
