package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/inamate/artboard/internal/auth"
	"github.com/inamate/artboard/internal/board"
	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/export"
	mw "github.com/inamate/artboard/internal/middleware"
	"github.com/inamate/artboard/internal/session"
	"github.com/inamate/artboard/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		slog.Warn("load settings, using defaults", "file", cfg.SettingsFile, "error", err)
	}

	db, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	slog.Info("store ready", "driver", cfg.StoreDriver)

	authService := auth.NewService(db, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	hub := session.NewHub(slog.Default())

	boardService := board.NewService(db, settings, slog.Default(), board.WithSessions(hub))
	boardHandler := board.NewHandler(boardService)

	exportHandler := export.NewHandler(settings)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	wsHandler := session.NewHandler(session.HandlerConfig{
		Hub:      hub,
		Auth:     authService,
		Boards:   boardService,
		Store:    db,
		Settings: settings,
		Origins:  mw.OriginHosts(cfg.Origins()),
		BaseCtx:  gctx,
	})

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	r.Handle("/auth/me", authService.AuthMiddleware(http.HandlerFunc(authHandler.Me))).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Stateless export (public)
	r.HandleFunc("/export/{format}", exportHandler.Export).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	boardHandler.Routes(api)

	r.HandleFunc("/ws/board/{boardId}", wsHandler.ServeWS)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown", "error", err)
		}

		// Sessions are hijacked connections; Shutdown does not wait for them.
		slog.Info("saving open boards...", "sessions", hub.Len())
		if err := hub.Wait(shutdownCtx); err != nil {
			slog.Error("sessions did not finish saving", "error", err)
		}
		return nil
	})

	return g.Wait()
}
