package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped bundles on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based bundle loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "bundle-loader").Logger(),
	}
}

// Load reads a gzipped JSON-lines bundle from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) ([]Record, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue bundle")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open bundle file")
		return nil, fmt.Errorf("failed to open bundle file %s: %w", path, err)
	}
	defer file.Close()

	records, err := decodeBundle(ctx, file, path, l.logger)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode bundle file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("records_loaded", len(records)).
		Msg("catalogue bundle loaded successfully")

	return records, nil
}

// decodeBundle reads gzip-compressed JSON-lines records from r. Blank lines
// are skipped; a malformed or invalid record fails the whole load with its
// line number so the bundle can be fixed at the source.
func decodeBundle(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) ([]Record, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	// Lines embed base64 image data and can be large
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var records []Record
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Int("lines_read", lineNo).Msg("bundle decoding cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("invalid record on line %d of %s: %w", lineNo, source, err)
		}

		if err := validate.Struct(&record); err != nil {
			return nil, fmt.Errorf("record on line %d of %s failed validation: %w", lineNo, source, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading bundle %s: %w", source, err)
	}

	return records, nil
}
