package main

import (
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/rs/zerolog"

	"github.com/plannetic/advisor-hub/internal/config"
	"github.com/plannetic/advisor-hub/internal/dbmigrate"
	"github.com/plannetic/advisor-hub/internal/httpserver"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	printStartupBanner(cfg, logger)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			logger.Fatal().Err(err).Msg("startup migrations")
		}

		logger.Info().Str("using", source).Msg("startup migrations: running up")
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("startup migrations failed")
		}
		logger.Info().Msg("startup migrations: completed")
	}

	validateProductionConfig(cfg, logger)

	server := httpserver.New(cfg, logger)
	defer server.Close()

	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Env == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config, logger zerolog.Logger) {
	logger.Info().
		Str("env", cfg.Env).
		Int("port", cfg.Port).
		Msg("Advisor Hub API")

	logger.Info().
		Str("runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)).
		Str("pooled", setOrNot(cfg.DatabaseURLPooled)).
		Str("direct", setOrNot(cfg.DatabaseURLDirect)).
		Bool("migrations_on_startup", cfg.RunMigrationsOnStartup).
		Msg("database")

	blobEvt := logger.Info().Str("blob_mode", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		blobEvt = blobEvt.Str("s3", cfg.Blob.S3.DiagnosticsSummary())
	}
	blobEvt.Msg("blob")

	logger.Info().
		Int("max_retries", cfg.Report.MaxRetries).
		Int("retry_base_ms", cfg.Report.RetryBaseMillis).
		Str("slidedeck_endpoint", setOrNot(cfg.Report.SlidedeckEndpoint)).
		Str("firm_name", cfg.Report.FirmName).
		Msg("reports")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config, logger zerolog.Logger) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			logger.Fatal().
				Str("missing", strings.Join(missing, ", ")).
				Msg("BLOB_MODE is 's3' but S3 config is incomplete")
		}
	}

	if isProd && cfg.DatabaseURL == "" {
		logger.Fatal().Str("env", cfg.Env).Msg("no DATABASE_URL configured")
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
