package catalogfile

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var gzipMagic = []byte{0x1f, 0x8b}

// fileLoader implements Loader for local files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader reading from the local file system.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a catalog file. Gzipped files are decompressed transparently.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]byte, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog file")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := readAll(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalog file")
		return nil, fmt.Errorf("failed to read catalog file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("bytes", len(data)).
		Msg("catalog file loaded successfully")
	return data, nil
}

// readAll reads at most MaxFileSize bytes, decompressing gzip input.
func readAll(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("catalog file exceeds %d bytes", MaxFileSize)
	}
	return data, nil
}
