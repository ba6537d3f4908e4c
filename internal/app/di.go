// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gocloud.dev/blob"

	"github.com/allisson/filevault/internal/config"
	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	"github.com/allisson/filevault/internal/database"
	filesHTTP "github.com/allisson/filevault/internal/files/http"
	filesService "github.com/allisson/filevault/internal/files/service"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
	"github.com/allisson/filevault/internal/http"
	identityService "github.com/allisson/filevault/internal/identity/service"
	"github.com/allisson/filevault/internal/metrics"
	userCache "github.com/allisson/filevault/internal/user/cache"
	userHTTP "github.com/allisson/filevault/internal/user/http"
	userUseCase "github.com/allisson/filevault/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	bucket          *blob.Bucket
	redisCache      *userCache.RedisCache
	metricsProvider *metrics.Provider

	// Managers
	txManager database.TxManager

	// Crypto
	kmsService  cryptoService.KMSService
	fileSecret  *cryptoDomain.FileSecret
	aeadManager cryptoService.AEADManager
	keyDeriver  cryptoService.KeyDeriver
	fileCipher  cryptoService.FileCipher

	// Identity
	tokenService *identityService.TokenService

	// Repositories
	userRepo  userUseCase.UserRepository
	fileRepo  filesUseCase.FileRepository
	grantRepo filesUseCase.GrantRepository

	// Services
	blobStore      filesUseCase.BlobStore
	tokenGenerator filesService.TokenGenerator

	// Use Cases
	userUseCase       userUseCase.UseCase
	fileUseCase       filesUseCase.FileUseCase
	publicLinkUseCase filesUseCase.PublicLinkUseCase
	businessMetrics   metrics.BusinessMetrics

	// Handlers
	userHandler       *userHTTP.UserHandler
	fileHandler       *filesHTTP.FileHandler
	publicLinkHandler *filesHTTP.PublicLinkHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	bucketInit            sync.Once
	redisCacheInit        sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	txManagerInit         sync.Once
	kmsServiceInit        sync.Once
	fileSecretInit        sync.Once
	aeadManagerInit       sync.Once
	keyDeriverInit        sync.Once
	fileCipherInit        sync.Once
	tokenServiceInit      sync.Once
	userRepoInit          sync.Once
	fileRepoInit          sync.Once
	grantRepoInit         sync.Once
	blobStoreInit         sync.Once
	tokenGeneratorInit    sync.Once
	userUseCaseInit       sync.Once
	fileUseCaseInit       sync.Once
	publicLinkUseCaseInit sync.Once
	userHandlerInit       sync.Once
	fileHandlerInit       sync.Once
	publicLinkHandlerInit sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// storedError returns the error recorded for key by a failed initialization.
func (c *Container) storedError(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[key]
}

// storeError records a failed initialization so later calls return the same error.
func (c *Container) storeError(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[key] = err
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		var err error
		c.db, err = c.initDB()
		if err != nil {
			c.storeError("db", err)
		}
	})
	if err := c.storedError("db"); err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.storeError("txManager", fmt.Errorf("failed to get database for tx manager: %w", err))
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err := c.storedError("txManager"); err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.storeError("metricsProvider", fmt.Errorf("failed to create metrics provider: %w", err))
			return
		}
		c.metricsProvider = provider
	})
	if err := c.storedError("metricsProvider"); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is returned when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.storeError("businessMetrics", err)
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.storeError("businessMetrics", fmt.Errorf("failed to create business metrics: %w", err))
			return
		}
		c.businessMetrics = bm
	})
	if err := c.storedError("businessMetrics"); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router set up.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.storeError("httpServer", err)
			return
		}
		c.httpServer = server
	})
	if err := c.storedError("httpServer"); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.storeError("metricsServer", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err := c.storedError("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.bucket != nil {
		if err := c.bucket.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob bucket close: %w", err))
		}
	}

	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.fileSecret != nil {
		c.fileSecret.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initHTTPServer creates the API server and installs its router.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	tokens, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for http server: %w", err)
	}

	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	fileHandler, err := c.FileHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get file handler for http server: %w", err)
	}

	publicLinkHandler, err := c.PublicLinkHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get public link handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	blobs, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	if checker, ok := blobs.(http.HealthChecker); ok {
		server.AddHealthCheck("blob_store", checker, true)
	}
	// A cache outage degrades to database reads, so it does not fail readiness.
	if cache := c.RedisCache(); cache != nil {
		server.AddHealthCheck("cache", cache, false)
	}
	server.SetupRouter(
		ctx,
		http.RouterConfig{
			CORSEnabled:                   c.config.CORSEnabled,
			CORSAllowOrigins:              c.config.CORSAllowOrigins,
			RateLimitEnabled:              c.config.RateLimitEnabled,
			RateLimitRequestsPerSec:       c.config.RateLimitRequestsPerSec,
			RateLimitBurst:                c.config.RateLimitBurst,
			RateLimitPublicEnabled:        c.config.RateLimitPublicEnabled,
			RateLimitPublicRequestsPerSec: c.config.RateLimitPublicRequestsPerSec,
			RateLimitPublicBurst:          c.config.RateLimitPublicBurst,
			MetricsEnabled:                c.config.MetricsEnabled,
		},
		tokens,
		userHandler,
		fileHandler,
		publicLinkHandler,
		provider,
		c.config.MetricsNamespace,
	)

	return server, nil
}
