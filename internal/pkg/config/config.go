package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Waitlist WaitlistConfig
	Sweeper  SweeperConfig
	Notifier NotifierConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Content-Disposition"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"12h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAMESITE" default:"Lax"`
}

// WaitlistConfig holds the business knobs of the offer flow.
type WaitlistConfig struct {
	OfferTTL               time.Duration `envconfig:"WAITLIST_OFFER_TTL" default:"2h"`
	DefaultDiscountPercent int           `envconfig:"WAITLIST_DEFAULT_DISCOUNT_PERCENT" default:"0"`
	BroadcastSize          int           `envconfig:"WAITLIST_BROADCAST_SIZE" default:"3"`
	MatchLimit             int           `envconfig:"WAITLIST_MATCH_LIMIT" default:"10"`
	ShopName               string        `envconfig:"WAITLIST_SHOP_NAME" default:"the salon"`
	IdempotencyTTL         time.Duration `envconfig:"WAITLIST_IDEMPOTENCY_TTL" default:"24h"`
	LateReplyWindow        time.Duration `envconfig:"WAITLIST_LATE_REPLY_WINDOW" default:"24h"`
}

type SweeperConfig struct {
	Enabled   bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval  time.Duration `envconfig:"SWEEPER_INTERVAL" default:"5m"`
	BatchSize int           `envconfig:"SWEEPER_BATCH_SIZE" default:"100"`
}

type NotifierConfig struct {
	Enabled       bool          `envconfig:"NOTIFIER_ENABLED" default:"true"`
	PollInterval  time.Duration `envconfig:"NOTIFIER_POLL_INTERVAL" default:"5s"`
	BatchSize     int           `envconfig:"NOTIFIER_BATCH_SIZE" default:"50"`
	MaxAttempts   int           `envconfig:"NOTIFIER_MAX_ATTEMPTS" default:"5"`
	RatePerSecond float64       `envconfig:"NOTIFIER_RATE_PER_SECOND" default:"10"`
	Burst         int           `envconfig:"NOTIFIER_BURST" default:"20"`
	Channel       string        `envconfig:"NOTIFIER_CHANNEL" default:"sms"`
	Lease         time.Duration `envconfig:"NOTIFIER_LEASE" default:"5m"`
}

// RedisConfig is optional; an empty Addr disables inbound dedupe.
type RedisConfig struct {
	Addr      string        `envconfig:"REDIS_ADDR" default:""`
	Password  string        `envconfig:"REDIS_PASSWORD" default:""`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	DedupeTTL time.Duration `envconfig:"REDIS_DEDUPE_TTL" default:"24h"`
}

// AMQPConfig is optional; an empty URL makes the relay log notifications instead of publishing.
type AMQPConfig struct {
	URL   string `envconfig:"AMQP_URL" default:""`
	Queue string `envconfig:"AMQP_NOTIFICATION_QUEUE" default:"waitlist.notifications"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-e2e-only",
			Duration: time.Hour,
		},
		Cookie: CookieConfig{SameSite: "Lax"},
		Waitlist: WaitlistConfig{
			OfferTTL:               2 * time.Hour,
			DefaultDiscountPercent: 10,
			BroadcastSize:          3,
			MatchLimit:             10,
			ShopName:               "Test Salon",
			IdempotencyTTL:         24 * time.Hour,
			LateReplyWindow:        24 * time.Hour,
		},
		Sweeper: SweeperConfig{
			Enabled:   false,
			Interval:  time.Minute,
			BatchSize: 100,
		},
		Notifier: NotifierConfig{
			Enabled:       false,
			PollInterval:  time.Second,
			BatchSize:     10,
			MaxAttempts:   3,
			RatePerSecond: 100,
			Burst:         100,
			Channel:       "sms",
			Lease:         time.Minute,
		},
	}
}
