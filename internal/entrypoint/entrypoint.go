package entrypoint

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/gymlife/internal/audit"
	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/database"
	auditRepo "github.com/mrlokans/gymlife/internal/database/audit"
	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/database/favourites"
	"github.com/mrlokans/gymlife/internal/database/lookups"
	"github.com/mrlokans/gymlife/internal/database/users"
	http_controllers "github.com/mrlokans/gymlife/internal/http"
	"github.com/mrlokans/gymlife/internal/scheduler"
	"github.com/mrlokans/gymlife/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Gym Life v%s", version)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	exerciseRepo := exercises.NewRepository(db.DB)
	favouriteRepo := favourites.NewRepository(db.DB)
	lookupRepo := lookups.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	auditEvents := auditRepo.NewRepository(db.DB)
	auditService := audit.NewService(auditEvents)

	sessionDB, closeSessionDB, err := openSessionDB(db, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer closeSessionDB()

	sessionManager, err := auth.NewSessionManager(sessionDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authService := auth.NewService(userRepo, cfg.Auth)

	csrfSecret, err := csrfSecretFrom(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}

	if hasUsers, err := authService.HasUsers(context.Background()); err == nil && !hasUsers {
		log.Printf("No users found. Visit /register to create the first account.")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var purgeScheduler *scheduler.PurgeScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasksDBPath(cfg.Database), tasks.FromConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewPurgeDeletedExercisesQueue(audit.NewRecordingPurger(exerciseRepo, auditService)),
			tasks.NewCleanupAuditEventsQueue(auditEvents),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Purge.Enabled {
			purgeScheduler = scheduler.NewPurgeScheduler(taskClient, cfg.Purge.Schedule, cfg.Purge.Retention)
			purgeScheduler.SetAuditRetention(cfg.Purge.AuditRetention)
			if err := purgeScheduler.Start(taskCtx); err != nil {
				log.Printf("WARNING: purge scheduler not started: %v", err)
			}
		}
	} else {
		log.Printf("Task queue disabled, soft-deleted exercises are only purged by the purge-deleted command")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Exercises:      exerciseRepo,
		Favourites:     favouriteRepo,
		Lookups:        lookupRepo,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Pagination:     cfg.Pagination,
		PurgeRetention: cfg.Purge.Retention,
		AuditRetention: cfg.Purge.AuditRetention,
		Audit:          auditService,
		AuditLog:       auditEvents,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}
	defer router.Close()

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if purgeScheduler != nil {
			purgeScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// csrfSecretFrom decodes a configured hex secret, uses any other value as raw
// bytes, and generates a fresh secret when none is configured.
func csrfSecretFrom(configured string) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured), nil
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set SESSION_SECRET to keep forms valid across restarts)")
	return hex.DecodeString(generated)
}

// siblingPath returns base with suffix inserted before its extension.
func siblingPath(base, suffix string) string {
	if base == "" {
		base = config.DefaultDatabasePath
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + suffix + ext
}

// tasksDBPath is where the task queue lives. The queue always uses sqlite,
// next to the main database file.
func tasksDBPath(cfg config.Database) string {
	if cfg.Path == "" {
		return config.DefaultDatabasePath
	}
	return cfg.Path
}

// openSessionDB returns the connection backing the session store. With sqlite
// the sessions share the main database; with postgres they go to a sqlite file
// next to DATABASE_PATH, since the store speaks sqlite.
func openSessionDB(db *database.Database, cfg config.Database) (*sql.DB, func(), error) {
	if db.Driver != config.DatabaseDriverPostgres {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlDB, func() {}, nil
	}

	path := siblingPath(cfg.Path, "-sessions")
	sqlDB, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, nil, fmt.Errorf("open sessions database %s: %w", path, err)
	}
	log.Printf("Sessions stored in %s", path)
	return sqlDB, func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing sessions database: %v", err)
		}
	}, nil
}
