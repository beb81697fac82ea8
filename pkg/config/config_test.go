package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromViper_Defaults(t *testing.T) {
	cfg, err := LoadFromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "storefront-console", cfg.App.Name)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Storefront.BaseURL)
	assert.Equal(t, TokenStoreFile, cfg.Session.Store)
	assert.Equal(t, "/orders", cfg.Checkout.ConfirmationPath)
	assert.False(t, cfg.Cart.ClampToStock)
	assert.False(t, cfg.Checkout.RejectMixedSuppliers)
	assert.False(t, cfg.Delivery.ForwardOnly)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Checkout.ReplayTTL)
	assert.Equal(t, 2, cfg.Storefront.Retries)
	assert.Equal(t, 200*time.Millisecond, cfg.Storefront.RetryInterval)
}

func TestLoadFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STOREFRONT_BASE_URL", "https://shop.example.com/")
	v.Set("SESSION_STORE", "REDIS")
	v.Set("DELIVERY_FORWARD_ONLY", true)

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.Storefront.BaseURL)
	assert.Equal(t, TokenStoreRedis, cfg.Session.Store)
	assert.True(t, cfg.Delivery.ForwardOnly)
	assert.True(t, cfg.Redis.Enabled)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, splitList(" https://a.io, ,https://b.io "))
	assert.Nil(t, splitList(""))
}

func TestLoadWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.env")
	content := "SERVER_PORT=9100\nCHECKOUT_REJECT_MIXED_SUPPLIERS=true\nSESSION_STORE=memory\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Checkout.RejectMixedSuppliers)
	assert.Equal(t, TokenStoreMemory, cfg.Session.Store)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:        AppConfig{Name: "console"},
			Server:     ServerConfig{Port: 8090},
			Storefront: StorefrontConfig{BaseURL: "http://localhost:5000"},
			Session:    SessionConfig{Store: TokenStoreFile},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing name", func(c *Config) { c.App.Name = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing base url", func(c *Config) { c.Storefront.BaseURL = "" }, true},
		{"relative base url", func(c *Config) { c.Storefront.BaseURL = "/api" }, true},
		{"unknown store", func(c *Config) { c.Session.Store = "sqlite" }, true},
		{"redis without key", func(c *Config) { c.Session.Store = TokenStoreRedis }, true},
		{"redis with key", func(c *Config) {
			c.Session.Store = TokenStoreRedis
			c.Session.RedisKey = "k"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
