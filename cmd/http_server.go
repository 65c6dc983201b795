package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/club-finance/api"
	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/activity"
	activityPostgres "github.com/frahmantamala/club-finance/internal/activity/postgres"
	"github.com/frahmantamala/club-finance/internal/auth"
	authPostgres "github.com/frahmantamala/club-finance/internal/auth/postgres"
	"github.com/frahmantamala/club-finance/internal/catalog"
	"github.com/frahmantamala/club-finance/internal/core/events"
	"github.com/frahmantamala/club-finance/internal/dues"
	duesPostgres "github.com/frahmantamala/club-finance/internal/dues/postgres"
	"github.com/frahmantamala/club-finance/internal/expense"
	expensePostgres "github.com/frahmantamala/club-finance/internal/expense/postgres"
	"github.com/frahmantamala/club-finance/internal/member"
	memberPostgres "github.com/frahmantamala/club-finance/internal/member/postgres"
	"github.com/frahmantamala/club-finance/internal/metrics"
	"github.com/frahmantamala/club-finance/internal/notification"
	"github.com/frahmantamala/club-finance/internal/payment"
	paymentPostgres "github.com/frahmantamala/club-finance/internal/payment/postgres"
	"github.com/frahmantamala/club-finance/internal/transport/rest"
	"github.com/frahmantamala/club-finance/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Dependencies are shared by every command that touches the database.
type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Gorm    *gorm.DB
	Bus     *events.EventBus
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func (d *Dependencies) Close(ctx context.Context) {
	if err := d.Bus.Drain(ctx); err != nil {
		d.Logger.Warn("event bus did not drain", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	router, err := setupRoutes(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.Close(ctx)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) (*chi.Mux, error) {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := api.Load(context.Background()); err != nil {
		return nil, err
	}

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, lg)

	memberService := member.NewService(memberPostgres.NewMemberRepository(deps.Gorm), deps.Bus, lg)

	activityRepo := activityPostgres.NewActivityRepository(deps.Gorm)
	activityService := activity.NewService(activityRepo, deps.Bus, lg)
	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(deps.Gorm), activityRepo, deps.Bus, lg)

	cycleRepo := duesPostgres.NewCycleRepository(deps.Gorm)
	duesService := dues.NewService(cycleRepo, lg)
	paymentService := payment.NewService(paymentPostgres.NewConfirmationRepository(deps.Gorm), cycleRepo, deps.Bus, lg)

	handlers := rest.Handlers{
		Health:     rest.NewHealthHandler(deps.DB, lg),
		Auth:       auth.NewHandler(authService, lg),
		Member:     member.NewHandler(memberService, lg),
		Activity:   activity.NewHandler(activityService, lg),
		Expense:    expense.NewHandler(expenseService, lg),
		Payment:    payment.NewHandler(paymentService, lg),
		Webhook:    payment.NewWebhookHandler(paymentService, cfg.Payment.WebhookSecret, lg),
		Dues:       dues.NewHandler(duesService, lg),
		Automation: dues.NewAutomationHandler(newDuesEngine(deps, memberService), cfg.Dues.AutomationToken, lg),
		Catalog:    catalog.NewHandler(catalog.NewService(lg), lg),
	}

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Document:       api.Document,
	}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
		opts.Metrics = deps.Metrics.Handler()
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, handlers, opts, lg)
	return router, nil
}

// newDuesEngine wires the automation engine; the member service performs
// the ACTIVE -> INACTIVE write during grace enforcement.
func newDuesEngine(deps *Dependencies, members dues.MemberDeactivator) *dues.Engine {
	return dues.NewEngine(
		duesPostgres.NewCycleRepository(deps.Gorm),
		duesPostgres.NewUnpaidMemberQuery(deps.DB),
		members,
		duesPostgres.NewNotificationLog(deps.Gorm),
		notification.NewSMTPMailer(deps.Config.Mail, deps.Logger),
		deps.Bus,
		deps.Config.Dues,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db, config.Env)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	m := metrics.New()
	m.Subscribe(bus)
	events.SubscribeAudit(bus, lg)

	return &Dependencies{
		Config:  config,
		DB:      db,
		Gorm:    gormDB,
		Bus:     bus,
		Metrics: m,
		Logger:  lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB, env string) (*gorm.DB, error) {
	level := gormLogger.Warn
	if env == "development" {
		level = gormLogger.Info
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(level),
	})
}
