package catalogfile

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Open builds the loader selected by cfg: local files only, or S3 with a
// local fallback. A failing S3 client degrades to local files.
func Open(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) Loader {
	fileLoader := NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}

// LoadProducts reads and parses the catalog file at location.
func LoadProducts(ctx context.Context, loader Loader, location string) ([]model.Product, error) {
	data, err := loader.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", location, err)
	}
	products, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return products, nil
}
