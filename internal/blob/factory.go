package blob

import (
	"fmt"

	"github.com/rs/zerolog"

	appcfg "github.com/plannetic/advisor-hub/internal/config"
)

// NewStore builds a blob store for mode local|s3|auto. A nil Store means
// local mode: report artifacts stay attached to their metadata records.
func NewStore(cfg appcfg.BlobConfig, logger zerolog.Logger) (Store, string, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logger.Info().Msg("blob: mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			logger.Info().Str("level", level).Str("code", code).Msg("blob.s3: " + msg)
			logger.Info().Msg("blob: mode=local (auto, S3 not configured)")
			return nil, appcfg.BlobModeLocal, nil
		}

		store, err := NewS3Store(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err != nil {
			logger.Warn().Err(err).Msg("blob.s3: init failed, fallback=local")
			return nil, appcfg.BlobModeLocal, nil
		}

		logger.Info().Str("summary", cfg.S3.DiagnosticsSummary()).Msg("blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %v", missing)
		}

		store, err := NewS3Store(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		logger.Info().Str("summary", cfg.S3.DiagnosticsSummary()).Msg("blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}
