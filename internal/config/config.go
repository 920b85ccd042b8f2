package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis caches availability snapshots. Empty RedisAddr disables the cache.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	SnapshotTTL   time.Duration `mapstructure:"SNAPSHOT_TTL"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`

	// CalendarTimezone decides which local day counts as "today".
	CalendarTimezone     string `mapstructure:"CALENDAR_TIMEZONE"`
	BookingHorizonMonths int    `mapstructure:"BOOKING_HORIZON_MONTHS"`

	CORSOrigins     string `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	TrustProxy      bool   `mapstructure:"TRUST_PROXY"`

	MailProvider      string `mapstructure:"MAIL_PROVIDER"`
	GmailClientID     string `mapstructure:"GMAIL_CLIENT_ID"`
	GmailClientSecret string `mapstructure:"GMAIL_CLIENT_SECRET"`
	GmailRefreshToken string `mapstructure:"GMAIL_REFRESH_TOKEN"`
	GmailUser         string `mapstructure:"GMAIL_USER"`
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `mapstructure:"TWILIO_FROM_NUMBER"`
	OwnerEmail        string `mapstructure:"OWNER_EMAIL"`
	OwnerPhone        string `mapstructure:"OWNER_PHONE"`
	BusinessName      string `mapstructure:"BUSINESS_NAME"`
	DigestCron        string `mapstructure:"DIGEST_CRON"`
}

const (
	MailProviderGmail    = "gmail"
	MailProviderSendGrid = "sendgrid"
	MailProviderNone     = "none"
)

var keys = []string{
	"APP_PORT", "ENV", "LOG_LEVEL", "DATABASE_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SNAPSHOT_TTL",
	"JWT_SECRET", "SESSION_TTL", "CALENDAR_TIMEZONE", "BOOKING_HORIZON_MONTHS",
	"CORS_ORIGINS", "RATE_LIMIT_PER_MIN", "TRUST_PROXY", "MAIL_PROVIDER",
	"GMAIL_CLIENT_ID", "GMAIL_CLIENT_SECRET", "GMAIL_REFRESH_TOKEN", "GMAIL_USER",
	"SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER",
	"OWNER_EMAIL", "OWNER_PHONE", "BUSINESS_NAME", "DIGEST_CRON",
}

// Load reads an optional .env file, then the environment, over the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SNAPSHOT_TTL", "30s")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("CALENDAR_TIMEZONE", "Local")
	v.SetDefault("BOOKING_HORIZON_MONTHS", 3)
	v.SetDefault("RATE_LIMIT_PER_MIN", 20)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("MAIL_PROVIDER", MailProviderNone)
	v.SetDefault("BUSINESS_NAME", "Captain Mike's Charters")
	v.SetDefault("DIGEST_CRON", "0 18 * * *")
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("CALENDAR_TIMEZONE: %w", err))
	}
	if c.BookingHorizonMonths < 1 {
		errs = append(errs, errors.New("BOOKING_HORIZON_MONTHS must be at least 1"))
	}
	switch c.MailProvider {
	case MailProviderGmail, MailProviderSendGrid, MailProviderNone:
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER %q not supported", c.MailProvider))
	}
	return errors.Join(errs...)
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.CalendarTimezone)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
