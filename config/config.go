// Package config reads the server settings from the environment, loading .env first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory    = "memory"
	BackendLocal     = "local"
	BackendPostgres  = "postgres"
	BackendRedis     = "redis"
	BackendFirestore = "firestore"
)

type Config struct {
	Port         string
	StoreBackend string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string

	RedisURL       string
	RedisNamespace string

	FirebaseCredentialsJSON string
	FirebaseProjectID       string

	JWTSecret          string
	SuperAdminUsername string
	SuperAdminEmail    string

	LedgerAPIKey string
	LedgerURL    string

	UploadsDir    string
	PublicBaseURL string

	BackupDir       string
	BackupRetention time.Duration
	BackupHour      int

	LogLevel     string
	OTLPEndpoint string
	TraceStdout  bool

	Timezone       string
	CurrencySymbol string
	StoreName      string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	retentionDays, err := intEnv("BACKUP_RETENTION_DAYS", 4)
	if err != nil {
		return Config{}, err
	}
	backupHour, err := intEnv("BACKUP_HOUR", 2)
	if err != nil {
		return Config{}, err
	}
	traceStdout, err := boolEnv("TRACE_STDOUT", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:                    env("PORT", "8080"),
		StoreBackend:            strings.ToLower(env("STORE_BACKEND", BackendLocal)),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  env("DB_PORT", "5432"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		SQLitePath:              env("SQLITE_PATH", "pos.db"),
		RedisURL:                env("REDIS_URL", "redis://localhost:6379/0"),
		RedisNamespace:          env("REDIS_NAMESPACE", "pos"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		SuperAdminUsername:      os.Getenv("SUPER_ADMIN_USERNAME"),
		SuperAdminEmail:         os.Getenv("SUPER_ADMIN_EMAIL"),
		LedgerAPIKey:            os.Getenv("LEDGER_API_KEY"),
		LedgerURL:               os.Getenv("LEDGER_URL"),
		UploadsDir:              env("UPLOADS_DIR", "uploads"),
		PublicBaseURL:           strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		BackupDir:               env("BACKUP_DIR", "backup/uploads"),
		BackupRetention:         time.Duration(retentionDays) * 24 * time.Hour,
		BackupHour:              backupHour,
		LogLevel:                env("LOG_LEVEL", "info"),
		OTLPEndpoint:            os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TraceStdout:             traceStdout,
		Timezone:                env("TIMEZONE", "Asia/Manila"),
		CurrencySymbol:          env("CURRENCY_SYMBOL", "₱"),
		StoreName:               env("STORE_NAME", "Fast Food POS"),
	}
	return cfg, nil
}

// PostgresDSN prefers DATABASE_URL and falls back to the DB_* parts.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// Location resolves Timezone, falling back to UTC for an unknown zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports every missing value the chosen backend needs.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.BackupHour < 0 || c.BackupHour > 23 {
		errs = append(errs, fmt.Errorf("BACKUP_HOUR must be 0-23, got %d", c.BackupHour))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendLocal:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the local backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" && (c.DBHost == "" || c.DBName == "") {
			errs = append(errs, errors.New("DATABASE_URL or DB_HOST and DB_NAME are required for the postgres backend"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	case BackendFirestore:
		if c.FirebaseCredentialsJSON == "" || c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_CREDENTIALS_JSON and FIREBASE_PROJECT_ID are required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	return errors.Join(errs...)
}

// GoogleSignIn reports whether Firebase credentials are present.
func (c Config) GoogleSignIn() bool {
	return c.FirebaseCredentialsJSON != "" && c.FirebaseProjectID != ""
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
