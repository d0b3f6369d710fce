// main is the entry point of the Attendance API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the key-value store (SQLite file or in-memory)
//  4. Build the account, enrollment and attendance services
//  5. Register all HTTP routes
//  6. Start the HTTP server in a separate goroutine
//  7. Block until an OS signal (Ctrl+C / kill) arrives, then shut down
//
// RUNNING THE SERVER:
//
//	go run ./cmd/attendance-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/attendance-api
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aanand-mishra/attendance-api/internal/account"
	"github.com/aanand-mishra/attendance-api/internal/attendance"
	"github.com/aanand-mishra/attendance-api/internal/config"
	"github.com/aanand-mishra/attendance-api/internal/credential"
	"github.com/aanand-mishra/attendance-api/internal/enrollment"
	"github.com/aanand-mishra/attendance-api/internal/http/handlers/auth"
	"github.com/aanand-mishra/attendance-api/internal/http/handlers/student"
	"github.com/aanand-mishra/attendance-api/internal/http/handlers/teacher"
	"github.com/aanand-mishra/attendance-api/internal/storage"
	"github.com/aanand-mishra/attendance-api/internal/storage/memory"
	"github.com/aanand-mishra/attendance-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the package-level slog functions, so the
	// configured logger becomes the default.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting attendance-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, closer, err := openStore(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()

	log.Info("storage initialised",
		slog.String("driver", cfg.StorageDriver),
		slog.String("path", cfg.StoragePath),
		slog.String("timeZone", cfg.Location().String()))

	// ── 4. Build Services ─────────────────────────────────────────────────
	verifier, err := credential.New(cfg.CredentialScheme)
	if err != nil {
		log.Error("failed to initialise credentials",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	accounts := account.NewService(store, verifier)
	enrollments := enrollment.NewService(store, time.Now)
	register := attendance.NewService(store, cfg.Batches, time.Now,
		attendance.WithLocation(cfg.Location()))

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	router := newRouter(accounts, enrollments, register)

	// ── 6. Create and Start the HTTP Server ───────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // report rendering
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// ─────────────────────────────────────────────────────────────────────────────
// newRouter maps every route to its handler.
//
// Route table:
//
//	POST /api/register                         → create an account
//	POST /api/login                            → start a session
//	POST /api/logout                           → end the session
//	GET  /api/session                          → who is logged in
//	POST /api/enrollments                      → enroll in a batch
//	GET  /api/enrollments/me                   → own enrollment
//	GET  /api/batches                          → batch catalog + rosters
//	GET  /api/batches/{id}                     → one roster
//	POST /api/batches/{id}/attendance          → submit today's marks
//	GET  /api/batches/{id}/attendance/{date}   → one day's marks
//	GET  /api/batches/{id}/report              → PDF / CSV export
//	GET  /api/students/{rollNumber}/attendance → monthly lookup (public)
//
// ─────────────────────────────────────────────────────────────────────────────
func newRouter(accounts *account.Service, enrollments *enrollment.Service, register *attendance.Service) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("POST /api/register", auth.Register(accounts))
	router.HandleFunc("POST /api/login", auth.Login(accounts))
	router.HandleFunc("POST /api/logout", auth.Logout(accounts))
	router.HandleFunc("GET /api/session", auth.Current(accounts))

	router.HandleFunc("POST /api/enrollments", student.Enroll(accounts, enrollments))
	router.HandleFunc("GET /api/enrollments/me", student.MyEnrollment(accounts, enrollments))

	router.HandleFunc("GET /api/batches",
		auth.RequireSession(accounts, teacher.Batches(register)))
	router.HandleFunc("GET /api/batches/{id}",
		auth.RequireSession(accounts, teacher.Batch(register)))
	router.HandleFunc("POST /api/batches/{id}/attendance",
		auth.RequireSession(accounts, teacher.SubmitAttendance(register)))
	router.HandleFunc("GET /api/batches/{id}/attendance/{date}",
		auth.RequireSession(accounts, teacher.DayAttendance(register)))
	router.HandleFunc("GET /api/batches/{id}/report",
		auth.RequireSession(accounts, teacher.Report(register)))

	router.HandleFunc("GET /api/students/{rollNumber}/attendance", student.Attendance(register))

	return router
}

// openStore returns the configured backend and a closer for it.
func openStore(cfg *config.Config) (storage.Store, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return memory.New(), io.NopCloser(nil), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.StoragePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("openStore: create dir: %w", err)
			}
		}
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("openStore: unknown driver %q", cfg.StorageDriver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
