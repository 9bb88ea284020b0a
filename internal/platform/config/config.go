package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"laurelid/internal/session"
)

// Config aggregates kiosk configuration values.
type Config struct {
	Server   Server
	Trust    Trust
	Session  Session
	Database Database
	Redis    RedisConfig
	Kafka    Kafka
	Logging  Logging
	KioskID  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	// MaxConns caps concurrent connections to the bridge. Zero is unlimited.
	MaxConns int
	// AdminJWTKey signs admin bearer tokens. Admin routes are disabled when empty.
	AdminJWTKey string
	// AllowedOrigins may call the bridge from a browser, e.g. the kiosk web UI.
	AllowedOrigins []string
}

// Trust configures the trust list source and its cache.
type Trust struct {
	URL string
	// TTLMinutes is the maximum list age; zero disables forced refresh.
	TTLMinutes   int
	FetchTimeout time.Duration
	// MirrorRetention bounds how old a Redis-mirrored list may be when served.
	MirrorRetention time.Duration
	// BreakerFailures consecutive failures open the circuit for BreakerCooldown.
	BreakerFailures int
	BreakerCooldown time.Duration
}

type Session struct {
	DemoMode     bool
	DemoInterval time.Duration
	DemoIssuer   string
}

// Database is optional; decisions stay in memory without it.
type Database struct {
	URL string
}

// RedisConfig is optional; the trust list is not mirrored without it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka is optional; decision events are not published without brokers.
type Kafka struct {
	Brokers []string
	Topic   string
}

type Logging struct {
	Level  string
	Format string // text|json
}

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxConns        = 64
	defaultTrustTTLMinutes = 60
	defaultFetchTimeout    = 10 * time.Second
	defaultMirrorRetention = 24 * time.Hour
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
	defaultKafkaTopic      = "laurelid.verifications"
)

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	cfg := Config{
		Server: Server{
			Addr:            valueOrDefault("LAURELID_ADDR", defaultAddr),
			ShutdownTimeout: parseDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &errs),
			MaxConns:        parseInt("LAURELID_MAX_CONNS", defaultMaxConns, &errs),
			AdminJWTKey:     os.Getenv("ADMIN_JWT_KEY"),
			AllowedOrigins:  splitCSV(os.Getenv("KIOSK_UI_ORIGINS")),
		},
		Trust: Trust{
			URL:             os.Getenv("TRUST_LIST_URL"),
			TTLMinutes:      parseInt("TRUST_LIST_TTL_MINUTES", defaultTrustTTLMinutes, &errs),
			FetchTimeout:    parseDuration("TRUST_FETCH_TIMEOUT", defaultFetchTimeout, &errs),
			MirrorRetention: parseDuration("TRUST_MIRROR_RETENTION", defaultMirrorRetention, &errs),
			BreakerFailures: parseInt("TRUST_BREAKER_FAILURES", defaultBreakerFailures, &errs),
			BreakerCooldown: parseDuration("TRUST_BREAKER_COOLDOWN", defaultBreakerCooldown, &errs),
		},
		Session: Session{
			DemoMode:     parseBool("DEMO_MODE", false, &errs),
			DemoInterval: parseDuration("DEMO_INTERVAL", session.DefaultDemoInterval, &errs),
			DemoIssuer:   valueOrDefault("DEMO_ISSUER", session.DefaultDemoIssuer),
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     parseInt("REDIS_POOL_SIZE", 4, &errs),
			MinIdleConns: parseInt("REDIS_MIN_IDLE_CONNS", 1, &errs),
			DialTimeout:  parseDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  parseDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: parseDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Kafka: Kafka{
			Brokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
			Topic:   valueOrDefault("KAFKA_TOPIC", defaultKafkaTopic),
		},
		Logging: Logging{
			Level:  valueOrDefault("LOG_LEVEL", "info"),
			Format: valueOrDefault("LOG_FORMAT", "text"),
		},
		KioskID: valueOrDefault("KIOSK_ID", hostname()),
	}

	if cfg.Trust.URL == "" {
		errs = append(errs, errors.New("TRUST_LIST_URL is required"))
	}
	if cfg.Trust.TTLMinutes < 0 {
		errs = append(errs, fmt.Errorf("TRUST_LIST_TTL_MINUTES must not be negative, got %d", cfg.Trust.TTLMinutes))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TrustTTL converts the configured minutes into the verifier's maximum cache
// age. Zero means no forced refresh.
func (c Config) TrustTTL() time.Duration {
	return time.Duration(c.Trust.TTLMinutes) * time.Minute
}

// SessionSettings are the settings applied on each session resume.
func (c Config) SessionSettings() session.Settings {
	return session.Settings{
		TrustTTL:     c.TrustTTL(),
		DemoMode:     c.Session.DemoMode,
		DemoInterval: c.Session.DemoInterval,
		DemoIssuer:   c.Session.DemoIssuer,
	}
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	val, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return val
}

func parseInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	val, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return val
}

func parseDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func splitCSV(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "kiosk"
	}
	return name
}
