package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/membergate/membergate/internal/shared/config"
)

const envPrefix = "MEMBERGATE"

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Gateway    sharedConfig.GatewayConfig    `mapstructure:"gateway"`
	Display    sharedConfig.DisplayConfig    `mapstructure:"display"`
	Content    sharedConfig.ContentConfig    `mapstructure:"content"`
	Permission sharedConfig.PermissionConfig `mapstructure:"permission"`
	RateLimit  sharedConfig.RateLimitConfig  `mapstructure:"rate_limit"`
	Cache      sharedConfig.CacheConfig      `mapstructure:"cache"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

var defaultSearchPaths = []string{"./configs", "../configs", "../../configs"}

// Load reads .env (if present), configs/config.yaml, configs/config.<env>.yaml
// and MEMBERGATE_* environment variables, in increasing precedence.
func Load(env string, searchPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if len(searchPaths) == 0 {
		searchPaths = defaultSearchPaths
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read %s config: %w", env, err)
			}
		}
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the last loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	if c.Server.Mode == "release" {
		if c.Auth.JWT.Secret == insecureSecret || c.Auth.Nonce.Secret == insecureSecret {
			return errors.New("auth secrets must be set in release mode")
		}
	}
	if c.Auth.JWT.AccessExpMinutes <= 0 {
		return errors.New("auth.jwt.access_exp_minutes must be positive")
	}
	if c.Auth.Nonce.LifetimeHours <= 0 {
		return errors.New("auth.nonce.lifetime_hours must be positive")
	}
	return nil
}

const insecureSecret = "change-me-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "membergate_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.secret", insecureSecret)
	v.SetDefault("auth.jwt.access_exp_minutes", 24*60)
	v.SetDefault("auth.nonce.secret", insecureSecret)
	v.SetDefault("auth.nonce.lifetime_hours", 12)
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.from_name", "Membergate")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("gateway.sandbox", false)
	v.SetDefault("gateway.paypal.live.api_username", "")
	v.SetDefault("gateway.paypal.live.api_password", "")
	v.SetDefault("gateway.paypal.live.api_signature", "")
	v.SetDefault("gateway.paypal.test.api_username", "")
	v.SetDefault("gateway.paypal.test.api_password", "")
	v.SetDefault("gateway.paypal.test.api_signature", "")
	v.SetDefault("gateway.paypal.endpoint", "")
	v.SetDefault("gateway.paypal.button_source", "EasyDigitalDownloads_SP")
	v.SetDefault("gateway.paypal.insecure_skip_verify", false)
	v.SetDefault("gateway.paypal.timeout", "45s")
	v.SetDefault("gateway.stripe.live_publishable_key", "")
	v.SetDefault("gateway.stripe.test_publishable_key", "")

	v.SetDefault("display.paid_message", "This content is restricted to subscribers")
	v.SetDefault("display.free_message", "This content is restricted to registered members")
	v.SetDefault("display.currency", "USD")
	v.SetDefault("display.site_name", "Membergate")
	v.SetDefault("display.date_format", "January 2, 2006")
	v.SetDefault("display.timezone", "UTC")

	v.SetDefault("content.login_url", "/auth/login")
	v.SetDefault("content.register_url", "/register")

	v.SetDefault("permission.capabilities_file", "")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.card_update_per_hour", 5)
	v.SetDefault("rate_limit.card_update_per_day", 20)
	v.SetDefault("rate_limit.login_per_minute", 10)
	v.SetDefault("rate_limit.login_per_hour", 100)

	v.SetDefault("cache.earnings_ttl_seconds", 600)
}
