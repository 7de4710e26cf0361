package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/mustafajawed/Budget-Manager/internal/core/services"
	"github.com/mustafajawed/Budget-Manager/internal/events"
	"github.com/mustafajawed/Budget-Manager/internal/handlers"
	"github.com/mustafajawed/Budget-Manager/internal/identity/firebase"
	"github.com/mustafajawed/Budget-Manager/internal/identity/local"
	"github.com/mustafajawed/Budget-Manager/internal/middleware"
	"github.com/mustafajawed/Budget-Manager/internal/platform/config"
	"github.com/mustafajawed/Budget-Manager/internal/platform/scheduler"
	"github.com/mustafajawed/Budget-Manager/internal/repositories/database/pgsql"
	fsrepo "github.com/mustafajawed/Budget-Manager/internal/repositories/firestore"
	"github.com/mustafajawed/Budget-Manager/pkg/database"

	portsrepo "github.com/mustafajawed/Budget-Manager/internal/core/ports/repositories"
	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres backs the pgsql document store and the local identity
	// provider's account table; an all-Firebase deployment needs neither.
	var dbPool *pgxpool.Pool
	if needsPostgres(cfg) {
		dbPool, err = database.NewPgxPool(rootCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	repos, err := buildRepositories(rootCtx, cfg, dbPool)
	if err != nil {
		logger.Error("Failed to initialize repositories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	identity, err := buildIdentityProvider(rootCtx, cfg, repos)
	if err != nil {
		logger.Error("Failed to initialize identity provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	publisher := buildPublisher(cfg, logger)
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	serviceContainer := services.NewServiceContainer(cfg, repos, identity, publisher)
	defer serviceContainer.Session.Close()

	if cfg.ResyncCron != "" {
		sched := scheduler.NewScheduler(serviceContainer.Ledger, logger)
		if err := sched.RegisterResync(cfg.ResyncCron); err != nil {
			logger.Error("Invalid RESYNC_CRON expression", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped.")
}

// needsPostgres reports whether the configured adapters require a
// postgres connection.
func needsPostgres(cfg *config.Config) bool {
	return cfg.DocstoreDriver == config.DocstorePgsql || cfg.IdentityProvider == config.IdentityLocal
}

func buildRepositories(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool) (portsrepo.RepositoryProvider, error) {
	var repos portsrepo.RepositoryProvider
	if dbPool != nil {
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	if cfg.DocstoreDriver == config.DocstoreFirestore {
		budgetRepo, err := fsrepo.NewBudgetRepository(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return repos, err
		}
		repos.BudgetRepo = budgetRepo
	}
	return repos, nil
}

func buildIdentityProvider(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider) (portssvc.IdentityProviderSvcFacade, error) {
	if cfg.IdentityProvider == config.IdentityFirebase {
		return firebase.NewProvider(ctx, cfg.FirebaseAPIKey)
	}
	return local.NewProvider(repos.UserRepo), nil
}

func buildPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set; ledger events will not be published.")
		return events.NopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker; ledger events disabled",
			slog.String("error", err.Error()))
		return events.NopPublisher{}
	}
	logger.Info("AMQP event publisher connected", slog.String("exchange", cfg.AMQPExchange))
	return publisher
}

// runMigrations applies all pending up migrations using a short-lived
// database/sql connection compatible with the pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
