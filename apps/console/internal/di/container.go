package di

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/cart"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/checkout"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/client"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/delivery"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/handler"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/middleware"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/repository"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/service"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/session"
	"github.com/prohmpiriya/storefront-console/pkg/config"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/redis"
	"github.com/prohmpiriya/storefront-console/pkg/retry"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.uber.org/zap"
)

// Container holds all dependencies of the console
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	// Infrastructure
	Redis     *redis.Client
	TokenRepo repository.TokenRepository
	API       *client.Client

	// Core
	Session  *session.Manager
	Policy   policy.Policy
	Cart     *cart.Cart
	Checkout *checkout.Orchestrator

	// Services
	Accounts   service.AccountService
	Products   service.ProductService
	Orders     service.OrderService
	Users      service.UserService
	Stats      service.StatsService
	Deliveries delivery.Service

	// Handlers
	Handlers *handler.Handlers
}

// ContainerConfig contains what the container cannot build itself
type ContainerConfig struct {
	Config *config.Config
	Log    *logger.Logger

	// Redis overrides the client built from Config.Redis
	Redis *redis.Client
	// TokenRepo overrides the store selected by Config.Session.Store
	TokenRepo repository.TokenRepository
}

// NewContainer wires the console and restores a persisted session
func NewContainer(ctx context.Context, cc *ContainerConfig) (*Container, error) {
	cfg := cc.Config
	log := cc.Log
	if log == nil {
		log = logger.Get()
	}

	c := &Container{Config: cfg, Log: log, Redis: cc.Redis, TokenRepo: cc.TokenRepo}

	if c.Redis == nil && cfg.Redis.Enabled {
		rc, err := redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    redis.DefaultConfig().MaxRetries,
			RetryInterval: redis.DefaultConfig().RetryInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.Redis = rc
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	if c.TokenRepo == nil {
		repo, err := newTokenRepository(cfg, c.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.TokenRepo = repo
	}

	// Core
	c.Session = session.NewManager(c.TokenRepo, session.WithLogger(log.Named("session")))
	c.API = client.New(client.Config{
		BaseURL:   cfg.Storefront.BaseURL,
		Timeout:   cfg.Storefront.Timeout,
		UserAgent: cfg.Storefront.UserAgent,
		Retry: retry.Config{
			MaxRetries:      cfg.Storefront.Retries,
			InitialInterval: cfg.Storefront.RetryInterval,
		},
	}, c.Session, log.Named("storefront"))
	c.Policy = policy.New(cfg.Delivery.ForwardOnly)

	var cartOpts []cart.Option
	if cfg.Cart.ClampToStock {
		cartOpts = append(cartOpts, cart.WithStockClamp())
	}
	c.Cart = cart.New(cartOpts...)
	c.Checkout = checkout.NewOrchestrator(c.API, c.Session, c.Cart, checkout.Config{
		RejectMixedSuppliers: cfg.Checkout.RejectMixedSuppliers,
		ConfirmationPath:     cfg.Checkout.ConfirmationPath,
	}, log.Named("checkout"))

	// Services
	c.Accounts = service.NewAccountService(c.API, c.Session, log.Named("account"))
	c.Products = service.NewProductService(c.API, c.Session, log.Named("product"))
	c.Orders = service.NewOrderService(c.API, c.Session)
	c.Users = service.NewUserService(c.API, c.Session, log.Named("user"))
	c.Stats = service.NewStatsService(c.API, c.Session)
	c.Deliveries = delivery.NewService(c.API, c.Policy, c.Session, log.Named("delivery"))

	// Handlers
	checks := map[string]handler.HealthChecker{"storefront": c.API}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.Handlers = &handler.Handlers{
		Health:   handler.NewHealthHandler(cfg.App.Name, checks),
		Session:  handler.NewSessionHandler(c.Accounts),
		Products: handler.NewProductHandler(c.Products),
		Cart:     handler.NewCartHandler(c.Cart, c.API, c.Checkout),
		Orders:   handler.NewOrderHandler(c.Orders, c.Deliveries, c.Stats),
		Users:    handler.NewUserHandler(c.Users),
	}

	if err := c.Session.Restore(ctx); err != nil {
		// An unusable token is discarded; the console starts anonymous
		log.Warn("persisted session not restored", zap.Error(err))
	}

	return c, nil
}

func newTokenRepository(cfg *config.Config, rc *redis.Client) (repository.TokenRepository, error) {
	switch cfg.Session.Store {
	case config.TokenStoreRedis:
		if rc == nil {
			return nil, fmt.Errorf("redis token store selected but redis is not configured")
		}
		return repository.NewRedisTokenRepository(rc, cfg.Session.RedisKey), nil
	case config.TokenStoreMemory:
		return repository.NewMemoryTokenRepository(), nil
	default:
		return repository.NewFileTokenRepository(cfg.Session.HomeDir)
	}
}

// Router builds the gin engine serving the console API
func (c *Container) Router() *gin.Engine {
	r := gin.New()

	cors := middleware.DefaultCORSConfig()
	if len(c.Config.Server.CORSOrigins) > 0 {
		cors.AllowOrigins = c.Config.Server.CORSOrigins
	}

	r.Use(
		middleware.Recovery(c.Log),
		middleware.RequestID(),
		telemetry.TracingMiddleware(),
		middleware.Logger(c.Log.Named("http")),
		middleware.CORSWithConfig(cors),
	)

	routes := handler.RouteConfig{Session: c.Session}
	if c.Redis != nil {
		routes.Replay = middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  c.Redis.Client(),
			TTL:    c.Config.Checkout.ReplayTTL,
			Logger: c.Log.Named("replay"),
		})
	}
	handler.RegisterRoutes(r, c.Handlers, routes)
	return r
}

// Close releases infrastructure connections
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("failed to close redis", zap.Error(err))
		}
	}
}
