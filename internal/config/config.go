// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, persistence, media storage, identity, AI adapters, rate limiting,
// and observability settings.
//
// Values are decoded with envconfig; nested sections are prefixed with their
// section tag (e.g. OTEL_ENABLED, DB_DRIVER, GEMINI_API_KEY).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,https://safevoiceforwomen.netlify.app"`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `envconfig:"ENABLED" default:"false"`
	HSTSMaxAge time.Duration `envconfig:"MAX_AGE" default:"4320h"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `envconfig:"ENABLED" default:"false"`                         // OTEL_ENABLED
	Endpoint    string  `envconfig:"EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"` // OTEL_EXPORTER_OTLP_ENDPOINT
	Insecure    bool    `envconfig:"EXPORTER_OTLP_INSECURE" default:"true"`           // true if no TLS
	ServiceName string  `envconfig:"SERVICE_NAME" default:"safevoice-api"`            // OTEL_SERVICE_NAME
	SampleRatio float64 `envconfig:"TRACES_SAMPLER_ARG" default:"1.0"`                // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects the relational backend.
type DBConfig struct {
	Driver string `envconfig:"DRIVER" default:"sqlite"`     // sqlite|postgres
	Path   string `envconfig:"FILE" default:"safevoice.db"` // DB_FILE
	DSN    string `envconfig:"DSN"`                         // postgres connection string
}

// AuthConfig holds session signing settings.
type AuthConfig struct {
	Secret   string        `envconfig:"SECRET"`
	TokenTTL time.Duration `envconfig:"TTL" default:"168h"`
}

// FirebaseConfig enables social/phone sign-in via Firebase ID tokens.
type FirebaseConfig struct {
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`
	ProjectID       string `envconfig:"PROJECT_ID"`
}

// Enabled reports whether a credentials file was configured.
func (f FirebaseConfig) Enabled() bool { return strings.TrimSpace(f.CredentialsFile) != "" }

// GeminiConfig configures the generative-language adapter.
type GeminiConfig struct {
	APIKey  string        `envconfig:"API_KEY"`
	Model   string        `envconfig:"MODEL" default:"gemini-1.5-flash-latest"`
	BaseURL string        `envconfig:"BASE_URL"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// StorageConfig selects the media backend for the story-media bucket.
type StorageConfig struct {
	Driver        string `envconfig:"DRIVER" default:"local"` // local|minio|s3|supabase
	Bucket        string `envconfig:"BUCKET" default:"story-media"`
	LocalDir      string `envconfig:"LOCAL_DIR" default:"data/media"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080/media"`
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"ACCESS_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`
	UseSSL    bool   `envconfig:"USE_SSL" default:"false"`
}

// S3Config holds AWS S3 settings; credentials come from the default chain.
type S3Config struct {
	Region        string `envconfig:"REGION" default:"us-east-1"`
	Endpoint      string `envconfig:"ENDPOINT"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`
}

// SupabaseConfig holds Supabase Storage settings.
type SupabaseConfig struct {
	ProjectID  string `envconfig:"PROJECT_ID"`
	ServiceKey string `envconfig:"SERVICE_KEY"`
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `envconfig:"PORT" default:"8080"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"` // uploads and AI calls
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes    int           `envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	GinMode           string        `envconfig:"GIN_MODE" default:"release"` // debug|release|test

	// Logging / Docs
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	SwaggerEnabled bool   `envconfig:"SWAGGER_ENABLED" default:"false"`
	APIBasePath    string `envconfig:"API_BASE_PATH" default:"/api/v1"`

	// Persistence
	DB DBConfig `envconfig:"DB"`

	// Identity
	JWT      AuthConfig     `envconfig:"JWT"`
	Firebase FirebaseConfig `envconfig:"FIREBASE"`

	// AI adapters
	Gemini GeminiConfig `envconfig:"GEMINI"`

	// Media
	Storage        StorageConfig  `envconfig:"STORAGE"`
	MinIO          MinIOConfig    `envconfig:"MINIO"`
	S3             S3Config       `envconfig:"S3"`
	Supabase       SupabaseConfig `envconfig:"SUPABASE"`
	MaxUploadBytes int64          `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"` // 50 MiB

	// Rate limiting
	RateRPS   float64 `envconfig:"RATE_RPS" default:"5"`
	RateBurst int     `envconfig:"RATE_BURST" default:"10"`

	// Web protection
	CORS     CORSConfig     `envconfig:"CORS"`
	Security SecurityConfig `envconfig:"HSTS"`

	// Idempotency
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	// Observability
	OTEL OTELConfig `envconfig:"OTEL"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("process environment config: %w", err)
	}

	normalize(&cfg)
	return cfg, Validate(cfg)
}

// normalize lowercases enum-like values and cleans lists and paths.
func normalize(cfg *Config) {
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.APIBasePath = normalizeBasePath(cfg.APIBasePath)
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Storage.PublicBaseURL = strings.TrimRight(cfg.Storage.PublicBaseURL, "/")
	cfg.CORS.AllowedOrigins = cleanList(cfg.CORS.AllowedOrigins)
}

// Validate checks cross-field invariants of an already decoded Config.
func Validate(cfg Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}

	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return errors.New("DB_FILE must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.DSN) == "" {
			return errors.New("DB_DSN must be set when DB_DRIVER=postgres")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" && cfg.GinMode == "release" {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	if cfg.JWT.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be > 0")
	}
	if cfg.Gemini.Timeout <= 0 {
		return errors.New("GEMINI_TIMEOUT must be > 0")
	}

	switch cfg.Storage.Driver {
	case "local":
		if strings.TrimSpace(cfg.Storage.LocalDir) == "" {
			return errors.New("STORAGE_LOCAL_DIR must not be empty")
		}
	case "minio":
		if cfg.MinIO.Endpoint == "" || cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "" {
			return errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for STORAGE_DRIVER=minio")
		}
	case "s3":
		if strings.TrimSpace(cfg.S3.Region) == "" {
			return errors.New("S3_REGION must be set for STORAGE_DRIVER=s3")
		}
	case "supabase":
		if cfg.Supabase.ProjectID == "" || cfg.Supabase.ServiceKey == "" {
			return errors.New("SUPABASE_PROJECT_ID and SUPABASE_SERVICE_KEY are required for STORAGE_DRIVER=supabase")
		}
	default:
		return errors.New("STORAGE_DRIVER must be one of: local, minio, s3, supabase")
	}
	if strings.TrimSpace(cfg.Storage.Bucket) == "" {
		return errors.New("STORAGE_BUCKET must not be empty")
	}
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be > 0")
	}

	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
