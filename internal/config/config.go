package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string          `json:"env"`
	Http      HttpConfig      `json:"http"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	APIKey    string          `json:"api_key,omitempty"`
	Proximity ProximityConfig `json:"proximity"`
	Sampler   SamplerConfig   `json:"sampler"`
	Meeting   MeetingConfig   `json:"meeting"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
}

// ProximityConfig drives the pairwise distance engine. NearbyThresholdM is
// deliberately configuration, not a compiled-in constant.
type ProximityConfig struct {
	NearbyThresholdM float64 `json:"nearby_threshold_m"`
}

// SamplerConfig drives the adaptive client-side location sampler.
type SamplerConfig struct {
	FastInterval    time.Duration `json:"fast_interval"`
	SlowInterval    time.Duration `json:"slow_interval"`
	FastSpeedMS     float64       `json:"fast_speed_ms"`
	SlowSpeedMS     float64       `json:"slow_speed_ms"`
	StationaryAfter time.Duration `json:"stationary_after"`
	MinMovementM    float64       `json:"min_movement_m"`
}

type MeetingConfig struct {
	// MinDurationMin filters very short sessions out of history reads.
	// Records are always persisted; zero keeps everything.
	MinDurationMin int `json:"min_duration_min"`
}

func Load(ctx context.Context) (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "presence_db"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		APIKey: getEnv("API_KEY", "super-secret-key"),
		Proximity: ProximityConfig{
			NearbyThresholdM: getEnvFloat("PROXIMITY_NEARBY_THRESHOLD_M", 200),
		},
		Sampler: SamplerConfig{
			FastInterval:    getEnvDuration("SAMPLER_FAST_INTERVAL", 30*time.Second),
			SlowInterval:    getEnvDuration("SAMPLER_SLOW_INTERVAL", 60*time.Second),
			FastSpeedMS:     getEnvFloat("SAMPLER_FAST_SPEED_MS", 5),
			SlowSpeedMS:     getEnvFloat("SAMPLER_SLOW_SPEED_MS", 1),
			StationaryAfter: getEnvDuration("SAMPLER_STATIONARY_AFTER", 5*time.Minute),
			MinMovementM:    getEnvFloat("SAMPLER_MIN_MOVEMENT_M", 50),
		},
		Meeting: MeetingConfig{
			MinDurationMin: getEnvInt("MEETING_MIN_DURATION_MIN", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Float64("nearby_threshold_m", cfg.Proximity.NearbyThresholdM))

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}

	if c.Proximity.NearbyThresholdM <= 0 {
		return errors.New("PROXIMITY_NEARBY_THRESHOLD_M must be positive")
	}

	if c.Sampler.FastInterval <= 0 || c.Sampler.SlowInterval <= 0 {
		return errors.New("sampler intervals must be positive")
	}

	if c.Sampler.SlowSpeedMS >= c.Sampler.FastSpeedMS {
		return errors.New("SAMPLER_SLOW_SPEED_MS must be below SAMPLER_FAST_SPEED_MS")
	}

	if c.Meeting.MinDurationMin < 0 {
		return errors.New("MEETING_MIN_DURATION_MIN must not be negative")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
