package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/config"
	"github.com/bidpoint/backend/internal/database"
	"github.com/bidpoint/backend/internal/handlers"
	middlewareCustom "github.com/bidpoint/backend/internal/middleware"
	"github.com/bidpoint/backend/internal/repositories"
	"github.com/bidpoint/backend/internal/routes"
	"github.com/bidpoint/backend/internal/search"
	"github.com/bidpoint/backend/internal/services"
	pkghttp "github.com/bidpoint/backend/pkg/http"
	pkglogger "github.com/bidpoint/backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	itemRepo := repositories.NewItemRepository(db)

	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Initialize services
	userService := services.NewUserService(userRepo, roleRepo, auditLogger, logger)
	roleService := services.NewRoleService(roleRepo, auditLogger, logger)
	itemService := services.NewItemService(itemRepo, userRepo, search.NewSearcher(itemRepo), auditLogger, logger)
	authService := services.NewAuthService(userRepo, tokenManager, auditLogger, logger)

	// Bootstrap first admin user if configured
	if cfg.Auth.AdminUsername != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		cancel()
		if err != nil {
			logger.Error("failed to ensure admin user", slog.Any("error", err))
		} else {
			logger.Info("admin user ready", slog.String("username", cfg.Auth.AdminUsername))
		}
	}

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(cfg.Server.Env))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	routes.RegisterRoutes(router, routes.Handlers{
		Users: handlers.NewUserHandler(userService),
		Roles: handlers.NewRoleHandler(roleService),
		Items: handlers.NewItemHandler(itemService, handlers.PageLimits{
			DefaultSize: cfg.Search.DefaultPageSize,
			MaxSize:     cfg.Search.MaxPageSize,
		}),
		Auth:   handlers.NewAuthHandler(authService, ipConfig),
		Health: healthHandler(db),
	}, tokenManager, userRepo, routes.Limits{
		LoginPerIP: cfg.Auth.LoginRateLimit,
		APIPerUser: cfg.Auth.APIRateLimit,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "up"})
	}
}
