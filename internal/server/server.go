// Package server wires the HTTP service: router, middleware, handlers and
// the scheduled status-change job.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/auth"
	"peopleops/internal/config"
	"peopleops/internal/db"
	"peopleops/internal/dropdown"
	"peopleops/internal/employee"
	"peopleops/internal/middleware"
	"peopleops/internal/profile"
	"peopleops/internal/reports"

	"github.com/jackc/pgx/v5/pgxpool"
)

const statusJobInterval = time.Hour

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler

	stopJobs chan struct{}
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, db.MigrationsFS()); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	app := &App{
		Config:   cfg,
		DB:       pool,
		Router:   newRouter(cfg, pool),
		stopJobs: make(chan struct{}),
	}
	go app.runStatusJob(employee.NewStore(pool))
	return app, nil
}

func newRouter(cfg config.Config, pool *pgxpool.Pool) chi.Router {
	employeeStore := employee.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		profileHandler := profile.NewHandler(profile.NewStore(pool), cfg.MaxDocumentBytes)
		// Document uploads carry their own larger cap.
		profileHandler.RegisterDocumentRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBody(cfg.MaxBodyBytes))
			auth.NewHandler(auth.NewStore(pool), cfg.JWTSecret).RegisterRoutes(r)
			employee.NewHandler(employeeStore).RegisterRoutes(r)
			profileHandler.RegisterRoutes(r)
			dropdown.NewHandler(dropdown.NewStore(pool)).RegisterRoutes(r)
			reports.NewHandler(reports.NewService(employeeStore)).RegisterRoutes(r)
		})
	})

	return router
}

// runStatusJob periodically flips scheduled PENDING_INACTIVE employees to
// INACTIVE once their effective date arrives.
func (a *App) runStatusJob(store *employee.Store) {
	ticker := time.NewTicker(statusJobInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopJobs:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			applied, err := store.ApplyDueStatusChanges(ctx)
			cancel()
			if err != nil {
				slog.Error("scheduled status change job failed", "err", err)
				continue
			}
			if applied > 0 {
				slog.Info("applied scheduled status changes", "count", applied)
			}
		}
	}
}

func (a *App) Close() {
	close(a.stopJobs)
	a.DB.Close()
}
