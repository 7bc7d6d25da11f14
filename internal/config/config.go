package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Mailer     MailerConfig
	Simulation SimulationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines admin authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	SeedAdminEmail        string
	SeedAdminPassword     string
}

// MailerConfig configures the simulated-phishing mail channel.
type MailerConfig struct {
	EmailFrom string
	// TrackingBaseURL prefixes the click/submit links embedded in email bodies.
	TrackingBaseURL string
	WebhookURL      string
	QueueSize       int
}

// SimulationConfig tunes the scheduling sweep and dispatch loops.
type SimulationConfig struct {
	SweepIntervalMinutes    int
	DispatchIntervalSeconds int
	DispatchBatchLimit      int
	StaleDays               int
	MonthlyFloorDays        int
	JitterHours             int
	HighRiskThreshold       float64
	LeaseTTLSeconds         int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "phishing-simulation-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SeedAdminEmail:        getEnv("AUTH_SEED_ADMIN_EMAIL", "admin@example.com"),
			SeedAdminPassword:     os.Getenv("AUTH_SEED_ADMIN_PASSWORD"),
		},
		Mailer: MailerConfig{
			EmailFrom:       getEnv("MAILER_EMAIL_FROM", "it-security@example.com"),
			TrackingBaseURL: getEnv("MAILER_TRACKING_BASE_URL", "http://localhost:8080"),
			WebhookURL:      getEnv("MAILER_WEBHOOK_URL", ""),
			QueueSize:       getEnvAsInt("MAILER_QUEUE_SIZE", 64),
		},
		Simulation: SimulationConfig{
			SweepIntervalMinutes:    getEnvAsInt("SIM_SWEEP_INTERVAL_MINUTES", 30),
			DispatchIntervalSeconds: getEnvAsInt("SIM_DISPATCH_INTERVAL_SECONDS", 15),
			DispatchBatchLimit:      getEnvAsInt("SIM_DISPATCH_BATCH_LIMIT", 10),
			StaleDays:               getEnvAsInt("SIM_STALE_DAYS", 7),
			MonthlyFloorDays:        getEnvAsInt("SIM_MONTHLY_FLOOR_DAYS", 30),
			JitterHours:             getEnvAsInt("SIM_JITTER_HOURS", 72),
			HighRiskThreshold:       getEnvAsFloat("SIM_HIGH_RISK_THRESHOLD", 50),
			LeaseTTLSeconds:         getEnvAsInt("SIM_LEASE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SweepInterval returns the scheduling-policy evaluation cadence.
func (s SimulationConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalMinutes) * time.Minute
}

// DispatchInterval returns the dispatch-loop polling cadence.
func (s SimulationConfig) DispatchInterval() time.Duration {
	return time.Duration(s.DispatchIntervalSeconds) * time.Second
}

// StaleAfter returns the staleness window for the trending and high-risk rules.
func (s SimulationConfig) StaleAfter() time.Duration {
	return time.Duration(s.StaleDays) * 24 * time.Hour
}

// MonthlyFloor returns the window after which a send is forced regardless of trend.
func (s SimulationConfig) MonthlyFloor() time.Duration {
	return time.Duration(s.MonthlyFloorDays) * 24 * time.Hour
}

// JitterWindow returns the random-delay window applied to new scheduled sends.
func (s SimulationConfig) JitterWindow() time.Duration {
	return time.Duration(s.JitterHours) * time.Hour
}

// LeaseTTL returns the background-loop lease expiry.
func (s SimulationConfig) LeaseTTL() time.Duration {
	return time.Duration(s.LeaseTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
