// Package files reads uploaded sales files from disk and classifies them by
// format before they enter the processing pipeline.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "feiralens/internal/errors"
	"feiralens/pkg/contracts/domain"
)

// DefaultMaxFileSize caps uploads at 10MB.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Reader loads sales files from the filesystem.
type Reader struct {
	logger      *slog.Logger
	maxFileSize int64
}

// NewReader creates a Reader with the given size limit. A non-positive limit
// falls back to DefaultMaxFileSize.
func NewReader(logger *slog.Logger, maxFileSize int64) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Reader{logger: logger, maxFileSize: maxFileSize}
}

// DetectKind classifies a file by extension. Unknown extensions return an
// UNSUPPORTED error so the caller can report them without guessing.
func DetectKind(name string) (domain.FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return domain.FileKindLedger, nil
	case ".csv":
		return domain.FileKindTabular, nil
	case ".xlsx", ".xls":
		return domain.FileKindSpreadsheet, nil
	default:
		return "", apperrors.NewUnsupportedError(
			fmt.Sprintf("unsupported file type: %s", filepath.Ext(name)))
	}
}

// Read loads a single file into an UploadedFile, enforcing the size limit.
func (r *Reader) Read(path string) (domain.UploadedFile, error) {
	name := filepath.Base(path)

	kind, err := DetectKind(name)
	if err != nil {
		return domain.UploadedFile{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedFile{}, apperrors.NewStorageError("stat file", err)
	}
	if info.Size() > r.maxFileSize {
		return domain.UploadedFile{}, apperrors.NewValidationError(
			fmt.Sprintf("file %s exceeds maximum size of %d bytes", name, r.maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, apperrors.NewStorageError("read file", err)
	}

	r.logger.Debug("file loaded",
		slog.String("file", name),
		slog.String("kind", string(kind)),
		slog.Int("bytes", len(data)))

	return domain.UploadedFile{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		Size:      info.Size(),
		Content:   string(data),
		Timestamp: time.Now(),
	}, nil
}

// ReadAll loads every path in order. It fails fast on the first error so the
// pipeline never runs on a partially loaded batch.
func (r *Reader) ReadAll(paths []string) ([]domain.UploadedFile, error) {
	uploaded := make([]domain.UploadedFile, 0, len(paths))
	for _, path := range paths {
		file, err := r.Read(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		uploaded = append(uploaded, file)
	}
	return uploaded, nil
}
