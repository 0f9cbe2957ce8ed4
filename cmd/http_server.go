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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/audit"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/product"
	productstore "github.com/frahmantamala/product-catalog/internal/product/postgres"
	"github.com/frahmantamala/product-catalog/internal/transport/rest"
	"github.com/frahmantamala/product-catalog/internal/user"
	userstore "github.com/frahmantamala/product-catalog/internal/user/postgres"
	"github.com/frahmantamala/product-catalog/pkg/logger"
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
	Config  *internal.Config
	DB      *sqlx.DB
	Router  *chi.Mux
	Logger  *slog.Logger
	Codec   *auth.TokenCodec
	Auth    *auth.Handler
	Product *product.Handler
	User    *user.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Codec, deps.Auth, deps.Product, deps.User, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
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
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.Default()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	productRepo := productstore.NewProductRepository(gormDB)
	userRepo := userstore.NewUserRepository(gormDB)

	codec := auth.NewTokenCodec(config.Security.JWTSecret, config.Security.TokenTTL)
	authService := auth.NewService(userRepo, codec)

	reporter := audit.NewReporter(audit.Config{
		URL:     config.Audit.URL,
		APIKey:  config.Audit.APIKey,
		Source:  config.Audit.Source,
		Timeout: config.Audit.Timeout,
	}, lg)

	productService := product.NewService(productRepo, lg)
	userService := user.NewService(userRepo, config.Security.BCryptCost, lg)

	return &Dependencies{
		Config:  config,
		DB:      db,
		Router:  chi.NewRouter(),
		Logger:  lg,
		Codec:   codec,
		Auth:    auth.NewHandler(authService),
		Product: product.NewHandler(productService, reporter),
		User:    user.NewHandler(userService, reporter),
	}, nil
}

// initDB initializes the database connection
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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
