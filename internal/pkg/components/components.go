// Package components is the dependency-injection container, grounded on
// the teacher's Container/sequential-init*/sync.Once pattern but wired for
// this module's layering: Store -> Engine/Views/Admin -> HTTP handlers,
// plus the Redis rate limiter and the Kafka+broker event publisher.
package components

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"core-banking-ledger/internal/api/handlers"
	"core-banking-ledger/internal/api/routes"
	"core-banking-ledger/internal/config"
	"core-banking-ledger/internal/domain/admin"
	"core-banking-ledger/internal/domain/ledger"
	"core-banking-ledger/internal/domain/query"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/infrastructure/database/postgres"
	"core-banking-ledger/internal/infrastructure/events"
	"core-banking-ledger/internal/infrastructure/messaging"
	"core-banking-ledger/internal/infrastructure/messaging/kafka"
	"core-banking-ledger/internal/pkg/logging"
	"core-banking-ledger/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Container holds all application components and their dependencies.
type Container struct {
	Config         *config.Config
	Store          database.Store
	Engine         *ledger.Engine
	Views          *query.Views
	Admin          *admin.Operations
	EventBroker    *events.Broker
	EventPublisher messaging.EventPublisher
	RedisClient    *redis.Client
	Limiter        *ratelimit.Limiter
	Router         *gin.Engine
	Server         *http.Server
}

var (
	instance     *Container
	instanceOnce sync.Once
	instanceErr  error
)

// GetInstance returns the singleton container instance.
func GetInstance() (*Container, error) {
	instanceOnce.Do(func() {
		instance, instanceErr = newContainer()
	})
	return instance, instanceErr
}

func New() (*Container, error) {
	return GetInstance()
}

func newContainer() (*Container, error) {
	c := &Container{}

	if err := c.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	if err := c.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := c.initStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := c.initEventBroker(); err != nil {
		return nil, fmt.Errorf("failed to initialize event broker: %w", err)
	}
	if err := c.initEventPublisher(); err != nil {
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	if err := c.initDomain(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain layer: %w", err)
	}
	if err := c.initRateLimiter(); err != nil {
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	if err := c.initServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	logging.Info("all components initialized", nil)
	return c, nil
}

func (c *Container) initConfig() error {
	c.Config = config.Load()
	return nil
}

func (c *Container) initLogger() error {
	logging.Init(c.Config)
	logging.Info("logger initialized", map[string]interface{}{"level": c.Config.Logging.Level})
	return nil
}

func (c *Container) initStore() error {
	store, err := postgres.New(context.Background(), c.Config.Database)
	if err != nil {
		return fmt.Errorf("create postgres store: %w", err)
	}
	c.Store = store
	logging.Info("store initialized", map[string]interface{}{
		"host": c.Config.Database.Host, "database": c.Config.Database.Database,
	})
	return nil
}

func (c *Container) initEventBroker() error {
	c.EventBroker = events.GetBroker()
	logging.Info("event broker initialized", nil)
	return nil
}

func (c *Container) initEventPublisher() error {
	var base messaging.EventPublisher
	if !c.Config.Kafka.Enabled {
		logging.Info("kafka disabled, using no-op event publisher", nil)
		base = messaging.NewNoOpEventPublisher()
	} else {
		kafkaConfig := kafka.NewConfigFromEnv()
		publisher, err := messaging.NewKafkaEventPublisher(kafkaConfig)
		if err != nil {
			logging.Warn("failed to initialize kafka, using no-op event publisher", map[string]interface{}{"error": err.Error()})
			base = messaging.NewNoOpEventPublisher()
		} else {
			base = publisher
			logging.Info("kafka event publisher initialized", map[string]interface{}{"brokers": kafkaConfig.Brokers})
		}
	}
	c.EventPublisher = messaging.NewBroadcastingPublisher(base, c.EventBroker)
	return nil
}

func (c *Container) initDomain() error {
	c.Engine = ledger.New(c.Store, c.EventPublisher, c.Config.Ledger)
	c.Views = query.New(c.Store)
	c.Admin = admin.New(c.Store, c.Engine)
	return nil
}

func (c *Container) initRateLimiter() error {
	c.RedisClient = redis.NewClient(&redis.Options{Addr: c.Config.Redis.Addr})
	c.Limiter = ratelimit.New(c.RedisClient, c.Config.RateLimit.RequestsPerMinute, c.Config.RateLimit.Window)
	logging.Info("rate limiter initialized", map[string]interface{}{
		"requests_per_minute": c.Config.RateLimit.RequestsPerMinute,
	})
	return nil
}

func (c *Container) initServer() error {
	if c.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	c.Router = gin.Default()

	deps := handlers.NewDependencies(c.Engine, c.Views, c.Admin)
	routes.Register(c.Router, deps, c.EventBroker, c.Limiter, c.Config)

	c.Server = &http.Server{
		Addr:           c.Config.Server.Host + ":" + c.Config.Server.Port,
		Handler:        c.Router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	logging.Info("http server configured", map[string]interface{}{"port": c.Config.Server.Port})
	return nil
}

// Start begins serving HTTP requests and blocks until a shutdown signal.
func (c *Container) Start() error {
	logging.Info("starting http server", map[string]interface{}{"address": c.Server.Addr})

	go func() {
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	c.waitForShutdown()
	return nil
}

func (c *Container) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Shutdown(ctx); err != nil {
		logging.Error("server forced to shutdown", err, nil)
	}
	logging.Info("server shutdown complete", nil)
}

// Shutdown gracefully stops every component the container started.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logging.Error("failed to close event publisher", err, nil)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logging.Error("failed to close redis client", err, nil)
		}
	}
	c.Store.Close()
	return nil
}

func (c *Container) GetConfig() *config.Config { return c.Config }
func (c *Container) GetRouter() *gin.Engine    { return c.Router }
func (c *Container) GetStore() database.Store  { return c.Store }
