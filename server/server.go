package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"artiststudio/cache"
	"artiststudio/config"
	"artiststudio/core/account"
	"artiststudio/core/admin"
	"artiststudio/core/auth"
	"artiststudio/core/catalog"
	"artiststudio/core/schema"
	"artiststudio/db"
	"artiststudio/logger"
	"artiststudio/repository"

	"github.com/gorilla/mux"
)

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Catalog  *catalog.Service
	Accounts *account.Service
	Admin    *admin.Service
	// Overrides is nil when no audit backend is configured.
	Overrides OverrideLog
}

// NewRouter builds the HTTP handler for every API route.
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	h := NewAPIHandler(cfg, deps)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(h.notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)
	router.Use(recoverer)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", h.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/songs", h.ListTracksHandler).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id}/play", h.RecordPlayHandler).Methods(http.MethodPost)
	api.HandleFunc("/categories", h.ListCategoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/login", h.LoginHandler).Methods(http.MethodPost)
	api.HandleFunc("/register", h.RegisterHandler).Methods(http.MethodPost)

	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(AdminOnly(deps.Accounts, cfg.AdminAuthRequired))
	adminAPI.HandleFunc("/stats", h.AdminStatsHandler).Methods(http.MethodGet)
	adminAPI.HandleFunc("/users", h.AdminUsersHandler).Methods(http.MethodGet)
	adminAPI.HandleFunc("/songs", h.AdminListTracksHandler).Methods(http.MethodGet)
	adminAPI.HandleFunc("/songs", h.AdminCreateTrackHandler).Methods(http.MethodPost)
	adminAPI.HandleFunc("/songs/{id}", h.AdminUpdateTrackHandler).Methods(http.MethodPut)
	adminAPI.HandleFunc("/songs/{id}", h.AdminDeleteTrackHandler).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/audit/overrides", h.AdminOverridesHandler).Methods(http.MethodGet)

	return accessLog(corsMiddleware(router))
}

// Start connects the backing stores, serves the API on cfg.Addr() and shuts
// down gracefully once ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config) error {
	pool, err := db.ConnectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("Connected to MySQL", logger.String("database", cfg.DBName))

	if cfg.DBAutoMigrate {
		if err := db.MigrateSchema(pool, cfg.SchemaPlayCounter != config.PlayCounterOff); err != nil {
			return err
		}
	}

	playCounter, err := schema.Resolve(ctx, cfg.SchemaPlayCounter, repository.NewMySQLSchemaRepository(pool))
	if err != nil {
		return err
	}

	var audit *cache.OverrideAudit
	if cfg.RedisEnabled {
		client, err := db.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.Warn("Redis unavailable, override logins will only be logged", logger.ErrorField(err))
		} else {
			defer client.Close()
			audit = cache.NewOverrideAudit(client)
			logger.Info("Connected to Redis", logger.String("addr", cfg.RedisAddr()))
		}
	}

	verifier := auth.NewVerifier(cfg.AuthOverridePasswords)
	if verifier.OverridesEnabled() {
		logger.Warn("Override passwords are enabled; every use is logged and audited")
	}
	if !cfg.AdminAuthRequired {
		logger.Warn("Admin routes are NOT protected (ADMIN_AUTH_REQUIRED=false)")
	}

	tracks := repository.NewMySQLTrackRepository(pool)
	categories := repository.NewMySQLCategoryRepository(pool)
	users := repository.NewMySQLUserRepository(pool)

	deps := Dependencies{
		Admin: admin.NewService(tracks, categories, users, playCounter),
	}
	if audit != nil {
		deps.Catalog = catalog.NewService(tracks, categories, playCounter, audit)
		deps.Accounts = account.NewService(users, verifier, audit)
		deps.Overrides = audit
	} else {
		deps.Catalog = catalog.NewService(tracks, categories, playCounter, nil)
		deps.Accounts = account.NewService(users, verifier, nil)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      NewRouter(cfg, deps),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
