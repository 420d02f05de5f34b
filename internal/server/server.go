// Package server wires handlers, middleware, and routes together and
// manages the HTTP server lifecycle. It is the composition root — all
// dependencies are assembled here, and main.go stays minimal.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/snippethub/internal/auth"
	"github.com/sakif/snippethub/internal/config"
	"github.com/sakif/snippethub/internal/handler"
	"github.com/sakif/snippethub/internal/middleware"
	sqliteRepo "github.com/sakif/snippethub/internal/repository/sqlite"
	"github.com/sakif/snippethub/internal/service"
)

// Server holds the router, configuration, and the resources it owns.
// The database connection belongs to the server and is closed during
// shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// repositories into services, services into handlers, handlers onto
// routes. Each layer only receives what it needs — handlers never touch
// the database, services never touch HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Listing and reading snippets is public; everything that creates,
// modifies, or is scoped to a user requires a valid token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	requireAuth := auth.RequireAuth(tokens)

	snippetService := service.NewSnippetService(s.db.Snippets(), s.logger)
	favoriteService := service.NewFavoriteService(s.db.Favorites(), s.db.Snippets(), s.logger)
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)

	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/verify", authHandler.HandleVerify)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", healthHandler.HandleRoot)
		r.Get("/health", healthHandler.HandleHealth)

		r.Get("/snippets", snippetHandler.HandleList)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)

			r.Get("/favorites", favoriteHandler.HandleList)
			r.Post("/favorites", favoriteHandler.HandleCreate)
			r.Delete("/favorites/{id}", favoriteHandler.HandleDelete)
		})
	})

	return nil
}

// Handler returns the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until it receives SIGINT or SIGTERM, then
// shuts down gracefully: stop accepting connections, wait up to 30s for
// in-flight requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
