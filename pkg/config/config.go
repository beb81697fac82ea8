package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cart       CartConfig       `mapstructure:"cart"`
	Checkout   CheckoutConfig   `mapstructure:"checkout"`
	Delivery   DeliveryConfig   `mapstructure:"delivery"`
	OTel       OTelConfig       `mapstructure:"otel"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings for the console API
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Addr returns the listen address
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorefrontConfig holds settings of the upstream storefront REST API
type StorefrontConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	Retries       int           `mapstructure:"retries"` // GET requests only
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// SessionConfig selects where the session token is persisted
type SessionConfig struct {
	Store    string `mapstructure:"store"` // file, redis, memory
	HomeDir  string `mapstructure:"home_dir"`
	RedisKey string `mapstructure:"redis_key"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"` // forced on by the redis token store
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CartConfig holds cart aggregator options
type CartConfig struct {
	ClampToStock bool `mapstructure:"clamp_to_stock"`
}

// CheckoutConfig holds checkout options
type CheckoutConfig struct {
	RejectMixedSuppliers bool          `mapstructure:"reject_mixed_suppliers"`
	ConfirmationPath     string        `mapstructure:"confirmation_path"`
	ReplayTTL            time.Duration `mapstructure:"replay_ttl"` // Redis-backed X-Idempotency-Key replay
}

// DeliveryConfig holds delivery state machine options
type DeliveryConfig struct {
	ForwardOnly bool `mapstructure:"forward_only"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// A missing .env is fine, env vars may still be set
	_ = v.ReadInConfig()

	return load(v)
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

// LoadFromViper binds configuration from an existing viper instance.
// The CLI uses this so that flags bound into viper override env values.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "storefront-console")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_LOG_LEVEL", "info")

	// Server defaults
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", 8090)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	v.SetDefault("SERVER_CORS_ORIGINS", "*")

	// Storefront API defaults
	v.SetDefault("STOREFRONT_BASE_URL", "http://localhost:5000")
	v.SetDefault("STOREFRONT_TIMEOUT", "15s")
	v.SetDefault("STOREFRONT_USER_AGENT", "storefront-console/1.0")
	v.SetDefault("STOREFRONT_RETRIES", 2)
	v.SetDefault("STOREFRONT_RETRY_INTERVAL", "200ms")

	// Session defaults
	v.SetDefault("SESSION_STORE", TokenStoreFile)
	v.SetDefault("SESSION_HOME_DIR", "")
	v.SetDefault("SESSION_REDIS_KEY", "storefront:console:token")

	// Redis defaults
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 1)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Behaviour switches, all off by default
	v.SetDefault("CART_CLAMP_TO_STOCK", false)
	v.SetDefault("CHECKOUT_REJECT_MIXED_SUPPLIERS", false)
	v.SetDefault("CHECKOUT_CONFIRMATION_PATH", "/orders")
	v.SetDefault("CHECKOUT_REPLAY_TTL", "10m")
	v.SetDefault("DELIVERY_FORWARD_ONLY", false)

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "storefront-console")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

func bindConfig(v *viper.Viper, cfg *Config) {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")
	cfg.App.LogLevel = v.GetString("APP_LOG_LEVEL")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")
	cfg.Server.CORSOrigins = splitList(v.GetString("SERVER_CORS_ORIGINS"))

	// Storefront
	cfg.Storefront.BaseURL = strings.TrimRight(v.GetString("STOREFRONT_BASE_URL"), "/")
	cfg.Storefront.Timeout = v.GetDuration("STOREFRONT_TIMEOUT")
	cfg.Storefront.UserAgent = v.GetString("STOREFRONT_USER_AGENT")
	cfg.Storefront.Retries = v.GetInt("STOREFRONT_RETRIES")
	cfg.Storefront.RetryInterval = v.GetDuration("STOREFRONT_RETRY_INTERVAL")

	// Session
	cfg.Session.Store = strings.ToLower(v.GetString("SESSION_STORE"))
	cfg.Session.HomeDir = v.GetString("SESSION_HOME_DIR")
	cfg.Session.RedisKey = v.GetString("SESSION_REDIS_KEY")

	// Redis
	cfg.Redis.Enabled = v.GetBool("REDIS_ENABLED") || cfg.Session.Store == TokenStoreRedis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	// Cart / checkout / delivery
	cfg.Cart.ClampToStock = v.GetBool("CART_CLAMP_TO_STOCK")
	cfg.Checkout.RejectMixedSuppliers = v.GetBool("CHECKOUT_REJECT_MIXED_SUPPLIERS")
	cfg.Checkout.ConfirmationPath = v.GetString("CHECKOUT_CONFIRMATION_PATH")
	cfg.Checkout.ReplayTTL = v.GetDuration("CHECKOUT_REPLAY_TTL")
	cfg.Delivery.ForwardOnly = v.GetBool("DELIVERY_FORWARD_ONLY")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")
}

// splitList parses a comma separated setting, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storefront.BaseURL == "" {
		return fmt.Errorf("STOREFRONT_BASE_URL is required")
	}
	u, err := url.Parse(c.Storefront.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STOREFRONT_BASE_URL: %q", c.Storefront.BaseURL)
	}

	switch c.Session.Store {
	case TokenStoreFile, TokenStoreRedis, TokenStoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE: %q", c.Session.Store)
	}

	if c.Session.Store == TokenStoreRedis && c.Session.RedisKey == "" {
		return fmt.Errorf("SESSION_REDIS_KEY is required for the redis token store")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
