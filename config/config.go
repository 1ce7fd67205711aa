package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment  string
	Name         string
	Version      string
	LogLevel     string
	HTTP         HTTPConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	JWT          JWTConfig
	S3           S3Config
	Backend      BackendConfig
	Registration RegistrationConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	CSRF         CSRFConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
	MaxUploadMB  int
	SecureCookie bool
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
	MigrationsDir      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	SigningKey string
	SessionTTL time.Duration
	Issuer     string
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// BackendConfig points at the remote REST API that owns coaches, bookings and payments.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RegistrationConfig struct {
	DraftTTL           time.Duration
	MaxSkills          int
	MaxAvailability    int
	MaxSlotsPerDay     int
	MaxCertifications  int
	MaxFileSizeBytes   int64
	CatalogCacheTTL    time.Duration
	PurgeGracePeriod   time.Duration
	SubmitLockTTLExtra time.Duration
}

type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type CSRFConfig struct {
	Key            string
	TrustedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "coachdash")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_READ_TIMEOUT", "10s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")
	v.SetDefault("HTTP_MAX_HEADER_MB", 1)
	v.SetDefault("HTTP_MAX_UPLOAD_MB", 64)
	v.SetDefault("HTTP_SECURE_COOKIE", false)

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "coachdash")
	v.SetDefault("POSTGRES_SSL_MODE", "disable")
	v.SetDefault("POSTGRES_MAX_CONNECTIONS", 10)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNECTIONS", 5)
	v.SetDefault("POSTGRES_MAX_LIFETIME", "5m")
	v.SetDefault("POSTGRES_MIGRATIONS_DIR", "./migrations")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SIGNING_KEY", "your_secret_key")
	v.SetDefault("JWT_SESSION_TTL", "24h")
	v.SetDefault("JWT_ISSUER", "coachdash")

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "coachdash")
	v.SetDefault("S3_USE_SSL", true)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:5000/api/v1")
	v.SetDefault("BACKEND_TIMEOUT", "20s")

	v.SetDefault("REGISTRATION_DRAFT_TTL", "24h")
	v.SetDefault("REGISTRATION_MAX_SKILLS", 20)
	v.SetDefault("REGISTRATION_MAX_AVAILABILITY", 14)
	v.SetDefault("REGISTRATION_MAX_SLOTS_PER_DAY", 12)
	v.SetDefault("REGISTRATION_MAX_CERTIFICATIONS", 10)
	v.SetDefault("REGISTRATION_MAX_FILE_SIZE_BYTES", 5*1024*1024)
	v.SetDefault("REGISTRATION_CATALOG_CACHE_TTL", "5m")
	v.SetDefault("REGISTRATION_PURGE_GRACE_PERIOD", "1h")
	v.SetDefault("REGISTRATION_SUBMIT_LOCK_EXTRA", "10s")

	v.SetDefault("RATE_LIMIT_AUTH_PER_MINUTE", 20)
	v.SetDefault("RATE_LIMIT_AUTH_BURST", 5)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CSRF_KEY", "")
	v.SetDefault("CSRF_TRUSTED_ORIGINS", "localhost:3000")
}

// NewConfig reads config.yaml from the working directory or ./config when
// present and lets environment variables override every key.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	durations := map[string]*time.Duration{}
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Name:        v.GetString("APP_NAME"),
		Version:     v.GetString("APP_VERSION"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Port:         v.GetString("HTTP_PORT"),
			MaxHeaderMB:  v.GetInt("HTTP_MAX_HEADER_MB"),
			MaxUploadMB:  v.GetInt("HTTP_MAX_UPLOAD_MB"),
			SecureCookie: v.GetBool("HTTP_SECURE_COOKIE"),
		},
		Postgres: PostgresConfig{
			Host:               v.GetString("POSTGRES_HOST"),
			Port:               v.GetString("POSTGRES_PORT"),
			Username:           v.GetString("POSTGRES_USER"),
			Password:           v.GetString("POSTGRES_PASSWORD"),
			DBName:             v.GetString("POSTGRES_DB"),
			SSLMode:            v.GetString("POSTGRES_SSL_MODE"),
			MaxConnections:     v.GetInt("POSTGRES_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("POSTGRES_MAX_IDLE_CONNECTIONS"),
			MigrationsDir:      v.GetString("POSTGRES_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			SigningKey: v.GetString("JWT_SIGNING_KEY"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			Region:          v.GetString("S3_REGION"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("S3_BUCKET"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		},
		Registration: RegistrationConfig{
			MaxSkills:         v.GetInt("REGISTRATION_MAX_SKILLS"),
			MaxAvailability:   v.GetInt("REGISTRATION_MAX_AVAILABILITY"),
			MaxSlotsPerDay:    v.GetInt("REGISTRATION_MAX_SLOTS_PER_DAY"),
			MaxCertifications: v.GetInt("REGISTRATION_MAX_CERTIFICATIONS"),
			MaxFileSizeBytes:  v.GetInt64("REGISTRATION_MAX_FILE_SIZE_BYTES"),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: v.GetInt("RATE_LIMIT_AUTH_PER_MINUTE"),
			AuthBurst:     v.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		CSRF: CSRFConfig{
			Key:            v.GetString("CSRF_KEY"),
			TrustedOrigins: splitList(v.GetString("CSRF_TRUSTED_ORIGINS")),
		},
	}

	durations["HTTP_READ_TIMEOUT"] = &cfg.HTTP.ReadTimeout
	durations["HTTP_WRITE_TIMEOUT"] = &cfg.HTTP.WriteTimeout
	durations["POSTGRES_MAX_LIFETIME"] = &cfg.Postgres.MaxLifetime
	durations["JWT_SESSION_TTL"] = &cfg.JWT.SessionTTL
	durations["BACKEND_TIMEOUT"] = &cfg.Backend.Timeout
	durations["REGISTRATION_DRAFT_TTL"] = &cfg.Registration.DraftTTL
	durations["REGISTRATION_CATALOG_CACHE_TTL"] = &cfg.Registration.CatalogCacheTTL
	durations["REGISTRATION_PURGE_GRACE_PERIOD"] = &cfg.Registration.PurgeGracePeriod
	durations["REGISTRATION_SUBMIT_LOCK_EXTRA"] = &cfg.Registration.SubmitLockTTLExtra

	for key, target := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid duration %s: %w", key, err)
		}
		*target = d
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
