package catalogfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Scheme prefixes locations that name an S3 object directly.
const S3Scheme = "s3://"

// objectGetter is the part of the S3 client the loader uses.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for catalog files stored in AWS S3.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates an S3-backed loader for bucket.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-catalog-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return newS3Loader(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Loader(client objectGetter, bucket string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{client: client, bucket: bucket, logger: logger}
}

// ParseS3URL splits s3://bucket/key. ok is false for any other location.
func ParseS3URL(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, S3Scheme)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Load reads an object. location is either a key in the configured bucket
// or a full s3://bucket/key URL.
func (l *s3Loader) Load(ctx context.Context, location string) ([]byte, error) {
	bucket, key := l.bucket, location
	if b, k, ok := ParseS3URL(location); ok {
		bucket, key = b, k
	}

	l.logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Msg("loading catalog file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", bucket, key, err)
	}
	defer result.Body.Close()

	data, err := readAll(result.Body)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", bucket).
			Str("key", key).
			Msg("error reading catalog file from S3")
		return nil, fmt.Errorf("error reading catalog file from S3 %s: %w", key, err)
	}

	l.logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("catalog file loaded successfully from S3")
	return data, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries S3 first, then falls back
// to the local file system. If s3Loader is nil only the file loader is used.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-loader").Logger(),
	}
}

// Load resolves location. Explicit s3:// URLs never fall back; plain paths
// are tried under the S3 prefix before the local file system.
func (l *fallbackLoader) Load(ctx context.Context, location string) ([]byte, error) {
	s3Ready := l.s3Enabled && l.s3Loader != nil

	if _, _, ok := ParseS3URL(location); ok {
		if !s3Ready {
			return nil, fmt.Errorf("cannot load %s: S3 is not enabled", location)
		}
		return l.s3Loader.Load(ctx, location)
	}

	if s3Ready {
		s3Key := l.s3Prefix + location

		l.logger.Info().
			Str("s3_key", s3Key).
			Str("local_fallback", location).
			Msg("attempting to load from S3")

		data, err := l.s3Loader.Load(ctx, s3Key)
		if err == nil {
			return data, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load from S3, falling back to local file system")
	} else {
		l.logger.Debug().
			Bool("s3_enabled", l.s3Enabled).
			Bool("has_s3_loader", l.s3Loader != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return l.fileLoader.Load(ctx, location)
}
