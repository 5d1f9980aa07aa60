package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// baseEnv sets the minimum environment for Load() to succeed in release mode.
func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	baseEnv(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("server defaults unexpected: %+v", cfg)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "safevoice.db" {
		t.Fatalf("db defaults unexpected: %+v", cfg.DB)
	}
	if cfg.Storage.Driver != "local" || cfg.Storage.Bucket != "story-media" {
		t.Fatalf("storage defaults unexpected: %+v", cfg.Storage)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.Gemini.Model != "gemini-1.5-flash-latest" || cfg.Gemini.APIKey != "" {
		t.Fatalf("gemini defaults unexpected: %+v", cfg.Gemini)
	}
	want := []string{"http://localhost:5173", "https://safevoiceforwomen.netlify.app"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("default origins = %#v", cfg.CORS.AllowedOrigins)
	}
	if cfg.JWT.TokenTTL != 168*time.Hour {
		t.Fatalf("jwt ttl = %v", cfg.JWT.TokenTTL)
	}
	if cfg.Firebase.Enabled() {
		t.Fatalf("firebase must be disabled without credentials")
	}
}

func TestLoad_Success_Overrides(t *testing.T) {
	baseEnv(t)
	// Server
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "WARNING") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SWAGGER_ENABLED", "1")
	t.Setenv("API_BASE_PATH", "api/v2/") // -> "/api/v2"

	// Persistence / media / AI
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost/safevoice")
	t.Setenv("STORAGE_DRIVER", "MINIO")
	t.Setenv("MINIO_ACCESS_KEY", "ak")
	t.Setenv("MINIO_SECRET_KEY", "sk")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://cdn.example/media/")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "fb.json")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("HSTS_ENABLED", "true")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v2" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.DSN == "" {
		t.Fatalf("db unexpected: %+v", cfg.DB)
	}
	if cfg.Storage.Driver != "minio" || cfg.Storage.PublicBaseURL != "https://cdn.example/media" {
		t.Fatalf("storage unexpected: %+v", cfg.Storage)
	}
	if cfg.Gemini.APIKey != "g-key" || !cfg.Firebase.Enabled() {
		t.Fatalf("ai/firebase unexpected: %+v %+v", cfg.Gemini, cfg.Firebase)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_ParseErrorIsWrapped(t *testing.T) {
	baseEnv(t)
	t.Setenv("RATE_BURST", "nope")
	_, err := Load()
	if err == nil || !containsErr(err, "process environment config") {
		t.Fatalf("expected wrapped envconfig error, got %v", err)
	}
}

func TestLoad_JWTSecretOptionalOutsideRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	if _, err := Load(); err != nil {
		t.Fatalf("debug mode should not require JWT_SECRET: %v", err)
	}
	t.Setenv("GIN_MODE", "release")
	if _, err := Load(); err == nil || !containsErr(err, "JWT_SECRET") {
		t.Fatalf("release mode should require JWT_SECRET, got %v", err)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"empty DB_FILE", map[string]string{"DB_FILE": "   "}, "DB_FILE must not be empty"},
		{"postgres without dsn", map[string]string{"DB_DRIVER": "postgres"}, "DB_DSN"},
		{"unknown db driver", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"unknown storage driver", map[string]string{"STORAGE_DRIVER": "ftp"}, "STORAGE_DRIVER"},
		{"minio without keys", map[string]string{"STORAGE_DRIVER": "minio"}, "MINIO_"},
		{"supabase without keys", map[string]string{"STORAGE_DRIVER": "supabase"}, "SUPABASE_"},
		{"empty bucket", map[string]string{"STORAGE_BUCKET": " "}, "STORAGE_BUCKET"},
		{"upload cap <= 0", map[string]string{"MAX_UPLOAD_BYTES": "0"}, "MAX_UPLOAD_BYTES"},
		{"rate rps negative", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst < 1", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts max age negative", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"idempotency ttl non-positive", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"jwt ttl non-positive", map[string]string{"JWT_TTL": "0s"}, "JWT_TTL"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %q validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestCleanList(t *testing.T) {
	if got := cleanList(nil); got != nil {
		t.Fatalf("nil -> %v", got)
	}
	if got := cleanList([]string{" ", ""}); got != nil {
		t.Fatalf("blanks -> %v", got)
	}
	got := cleanList([]string{" a ", "", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("cleanList = %#v", got)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"  ":       "/",
		"/":        "/",
		"api":      "/api",
		"/api/":    "/api",
		"/api/v1/": "/api/v1",
		"api/v1//": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func containsErr(err error, sub string) bool {
	return err != nil && strings.Contains(err.Error(), sub)
}
