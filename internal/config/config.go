package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// ReportConfig holds the report pipeline settings.
type ReportConfig struct {
	MaxRetries        int    // retries beyond the first attempt
	RetryBaseMillis   int    // exponential backoff base delay
	SlidedeckEndpoint string // external slide encoder URL (empty = unavailable)
	CreatedBy         string // recorded on report metadata rows
	FirmName          string // default firm display name
}

// Config holds the application configuration.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as given
	DatabaseURLPooled string
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int

	Blob   BlobConfig
	Report ReportConfig

	// Migrations
	RunMigrationsOnStartup bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := parseBoolEnv("CORS_ALLOW_CREDENTIALS")

	// ---------- Blob / S3 ----------
	blobMode := strings.ToLower(strings.TrimSpace(os.Getenv("BLOB_MODE")))
	if blobMode == "" {
		blobMode = BlobModeLocal
	}
	if blobMode != BlobModeLocal && blobMode != BlobModeS3 && blobMode != BlobModeAuto {
		log.Printf("WARNING: unknown BLOB_MODE=%q, fallback to %s", blobMode, BlobModeLocal)
		blobMode = BlobModeLocal
	}

	// S3_PRESIGN_TTL_SECONDS (default: 3600 = 1 hour download links)
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 3600)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 3600
	}

	blobCfg := BlobConfig{
		Mode: blobMode,
		S3: S3Config{
			Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PresignTTLSeconds: s3PresignTTL,
		},
	}

	// ---------- Reports ----------
	maxRetries := envInt("REPORT_MAX_RETRIES", 3)
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryBase := envInt("REPORT_RETRY_BASE_MS", 1000)
	if retryBase <= 0 {
		retryBase = 1000
	}

	createdBy := strings.TrimSpace(os.Getenv("REPORT_CREATED_BY"))
	if createdBy == "" {
		createdBy = "system"
	}
	firmName := strings.TrimSpace(os.Getenv("FIRM_NAME"))
	if firmName == "" {
		firmName = "Plannetic"
	}

	reportCfg := ReportConfig{
		MaxRetries:        maxRetries,
		RetryBaseMillis:   retryBase,
		SlidedeckEndpoint: strings.TrimSpace(os.Getenv("SLIDEDECK_ENDPOINT")),
		CreatedBy:         createdBy,
		FirmName:          firmName,
	}

	return &Config{
		Env:                    env,
		Port:                   port,
		LogLevel:               logLevel,
		DatabaseURL:            runtimeDB,
		DatabaseURLRaw:         dbURL,
		DatabaseURLPooled:      dbPooled,
		DatabaseURLDirect:      dbDirect,
		CORSAllowedOrigins:     corsOrigins,
		CORSAllowCredentials:   corsAllowCreds,
		RateLimitRPS:           envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst:         envInt("RATE_LIMIT_BURST", 0),
		Blob:                   blobCfg,
		Report:                 reportCfg,
		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
	}
}

// parseCORSOrigins splits a comma-separated origin list. Local defaults to "*".
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"*"}
		}
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func envInt(key string, defaultVal int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %d", key, raw, defaultVal)
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}
