package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type NonceConfig struct {
	Secret        string `mapstructure:"secret"`
	LifetimeHours int    `mapstructure:"lifetime_hours"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Nonce    NonceConfig    `mapstructure:"nonce"`
	// CookieSecure marks the session cookie Secure.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// Enabled reports whether outgoing mail is configured.
func (e *EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.FromAddress != ""
}

// PayPalAPICredentials is one username/password/signature triple.
type PayPalAPICredentials struct {
	APIUsername  string `mapstructure:"api_username"`
	APIPassword  string `mapstructure:"api_password"`
	APISignature string `mapstructure:"api_signature"`
}

type PayPalConfig struct {
	Live         PayPalAPICredentials `mapstructure:"live"`
	Test         PayPalAPICredentials `mapstructure:"test"`
	Endpoint     string               `mapstructure:"endpoint"`
	ButtonSource string               `mapstructure:"button_source"`
	// InsecureSkipVerify disables TLS certificate verification for NVP calls.
	// Every request made with it enabled is logged.
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type StripeConfig struct {
	LivePublishableKey string `mapstructure:"live_publishable_key"`
	TestPublishableKey string `mapstructure:"test_publishable_key"`
}

type GatewayConfig struct {
	Sandbox bool         `mapstructure:"sandbox"`
	PayPal  PayPalConfig `mapstructure:"paypal"`
	Stripe  StripeConfig `mapstructure:"stripe"`
}

// StripePublishableKey returns the key matching the sandbox flag.
func (g *GatewayConfig) StripePublishableKey() string {
	if g.Sandbox {
		return g.Stripe.TestPublishableKey
	}
	return g.Stripe.LivePublishableKey
}

type DisplayConfig struct {
	PaidMessage string `mapstructure:"paid_message"`
	FreeMessage string `mapstructure:"free_message"`
	Currency    string `mapstructure:"currency"`
	SiteName    string `mapstructure:"site_name"`
	DateFormat  string `mapstructure:"date_format"`
	Timezone    string `mapstructure:"timezone"`
}

type PaidPost struct {
	Title string `mapstructure:"title"`
	URL   string `mapstructure:"url"`
}

type ContentConfig struct {
	PaidPosts []PaidPost `mapstructure:"paid_posts"`
	// LoginURL is where login forms post to.
	LoginURL string `mapstructure:"login_url"`
	// RegisterURL is where registration forms post to.
	RegisterURL string `mapstructure:"register_url"`
}

type PermissionConfig struct {
	CapabilitiesFile string `mapstructure:"capabilities_file"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	CardUpdatePerHour int  `mapstructure:"card_update_per_hour"`
	CardUpdatePerDay  int  `mapstructure:"card_update_per_day"`
	LoginPerMinute    int  `mapstructure:"login_per_minute"`
	LoginPerHour      int  `mapstructure:"login_per_hour"`
}

type CacheConfig struct {
	EarningsTTLSeconds int `mapstructure:"earnings_ttl_seconds"`
}
