package cmd

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/company-management/api"
	"github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	auditPostgres "github.com/frahmantamala/company-management/internal/audit/postgres"
	"github.com/frahmantamala/company-management/internal/auth"
	authPostgres "github.com/frahmantamala/company-management/internal/auth/postgres"
	"github.com/frahmantamala/company-management/internal/catalog"
	catalogPostgres "github.com/frahmantamala/company-management/internal/catalog/postgres"
	"github.com/frahmantamala/company-management/internal/company"
	companyPostgres "github.com/frahmantamala/company-management/internal/company/postgres"
	"github.com/frahmantamala/company-management/internal/core/events"
	"github.com/frahmantamala/company-management/internal/credit"
	"github.com/frahmantamala/company-management/internal/credit/lock"
	creditPostgres "github.com/frahmantamala/company-management/internal/credit/postgres"
	"github.com/frahmantamala/company-management/internal/department"
	departmentPostgres "github.com/frahmantamala/company-management/internal/department/postgres"
	"github.com/frahmantamala/company-management/internal/identity"
	identityPostgres "github.com/frahmantamala/company-management/internal/identity/postgres"
	"github.com/frahmantamala/company-management/internal/policy"
	"github.com/frahmantamala/company-management/internal/task"
	taskPostgres "github.com/frahmantamala/company-management/internal/task/postgres"
	"github.com/frahmantamala/company-management/internal/telemetry"
	"github.com/frahmantamala/company-management/internal/transport/rest"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
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

type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Gorm      *gorm.DB
	Redis     *redis.Client
	EventBus  *events.EventBus
	Handler   http.Handler
	Logger    *slog.Logger
	Telemetry telemetry.ShutdownFunc
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	lg.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Handler,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			lg.Error("Server failed to start", "error", err)
			deps.close(context.Background())
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("Server shutdown error", "error", err)
	}
	deps.close(ctx)

	lg.Info("Server stopped")
}

// close drains in-flight events before releasing connections.
func (d *Dependencies) close(ctx context.Context) {
	if err := d.EventBus.Wait(ctx); err != nil {
		d.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
	if err := d.Telemetry(ctx); err != nil {
		d.Logger.Error("Tracer shutdown error", "error", err)
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Server.Env, cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	if _, err := api.Load(ctx); err != nil {
		return nil, err
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:  cfg.Observability.Tracing.ServiceName,
		OTLPEndpoint: cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Observability.Tracing.OTLPInsecure,
	}, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	checks := map[string]rest.CheckFunc{"postgres": db.PingContext}

	locker := lock.Locker(lock.NopLocker{})
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = lock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		lg.Info("credit ledger lock enabled", "addr", cfg.Redis.Addr)
	}

	bus := events.NewEventBus(lg)
	events.RegisterLoggingSubscribers(bus, lg)

	// repositories
	userRepo := userPostgres.NewUserRepository(gormDB)
	companyRepo := companyPostgres.NewCompanyRepository(gormDB)
	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	taskRepo := taskPostgres.NewTaskRepository(gormDB)
	serviceRepo := catalogPostgres.NewServiceRepository(gormDB)
	creditRepo := creditPostgres.NewCreditRepository(gormDB)
	auditRepo := auditPostgres.NewQueryRepository(db)

	tokens := identity.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenIssuer, cfg.Security.TokenDuration)
	provider := identity.NewLocalProvider(identityPostgres.NewAccountRepository(gormDB), tokens, cfg.Security.BCryptCost, lg)

	// services
	authorizer := policy.NewAuthorizer(userRepo, lg)
	authService := auth.NewService(userRepo, authPostgres.NewDirectoryRepository(gormDB), provider, lg)
	userService := user.NewService(userRepo, lg)
	companyService := company.NewService(companyRepo, userRepo, authorizer, lg)
	departmentService := department.NewService(departmentRepo, companyRepo, userRepo, authorizer, lg)
	taskService := task.NewService(taskRepo, companyRepo, departmentRepo, userRepo, authorizer, bus, lg)
	catalogService := catalog.NewService(serviceRepo, companyRepo, authorizer, lg)
	creditService := credit.NewService(creditRepo, companyRepo, serviceRepo, authorizer, lg,
		credit.WithLocker(locker),
		credit.WithPublisher(bus),
		credit.WithLowBalanceThreshold(cfg.Credits.LowBalanceThreshold),
	)
	auditService := audit.NewService(auditRepo, authorizer, lg)

	router := rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(checks),
		Auth:       auth.NewHandler(authService),
		Policy:     policy.NewMiddleware(authorizer),
		User:       user.NewHandler(userService, auth.UserFromContext),
		Company:    company.NewHandler(companyService),
		Department: department.NewHandler(departmentService),
		Task:       task.NewHandler(taskService),
		Catalog:    catalog.NewHandler(catalogService),
		Credit:     credit.NewHandler(creditService),
		Audit:      audit.NewHandler(auditService),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.Server.Origins(),
		RequestTimeout: cfg.Server.RequestTimeout,
	}, lg)

	return &Dependencies{
		Config:    cfg,
		DB:        db,
		Gorm:      gormDB,
		Redis:     rdb,
		EventBus:  bus,
		Handler:   otelhttp.NewHandler(router, "company-management"),
		Logger:    lg,
		Telemetry: shutdownTracing,
	}, nil
}

// initDB opens the shared pgx pool used by both sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	if err := gormDB.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("failed to install gorm tracing: %w", err)
	}
	return gormDB, nil
}
