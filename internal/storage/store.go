// Package storage persists saved analyses as one JSON document per record.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "feiralens/internal/errors"
	"feiralens/pkg/contracts/domain"
)

// AnalysisStore saves and restores pipeline results. In a private session
// nothing touches disk and every record lives only for the process lifetime.
type AnalysisStore struct {
	logger  *slog.Logger
	dataDir string
	private bool

	mu      sync.RWMutex
	session map[string]domain.SavedAnalysis
}

// NewAnalysisStore creates a store rooted at dataDir. When private is true
// the store keeps records in memory only.
func NewAnalysisStore(logger *slog.Logger, dataDir string, private bool) (*AnalysisStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !private {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, apperrors.NewStorageError("create data directory", err)
		}
	}
	return &AnalysisStore{
		logger:  logger,
		dataDir: dataDir,
		private: private,
		session: make(map[string]domain.SavedAnalysis),
	}, nil
}

// PrivateSession reports whether the store persists to disk.
func (s *AnalysisStore) PrivateSession() bool {
	return s.private
}

// Put stores a named analysis and returns the saved record. Missing IDs and
// timestamps are filled in, and the date range and totals are derived from
// the result.
func (s *AnalysisStore) Put(name string, result domain.PipelineResult) (domain.SavedAnalysis, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SavedAnalysis{}, apperrors.NewValidationError("analysis name must not be empty")
	}

	record := domain.SavedAnalysis{
		ID:         uuid.NewString(),
		Name:       name,
		Result:     result,
		TotalSales: len(result.Sales),
		Timestamp:  time.Now(),
	}
	for _, sale := range result.Sales {
		record.TotalValue += sale.TotalValue
		if record.DateFrom.IsZero() || sale.Date.Before(record.DateFrom) {
			record.DateFrom = sale.Date
		}
		if sale.Date.After(record.DateTo) {
			record.DateTo = sale.Date
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.private {
		s.session[record.ID] = record
	} else {
		if err := s.writeRecord(record); err != nil {
			return domain.SavedAnalysis{}, err
		}
	}

	s.logger.Info("analysis saved",
		slog.String("id", record.ID),
		slog.String("name", record.Name),
		slog.Int("sales", record.TotalSales),
		slog.Bool("private", s.private))
	return record, nil
}

// Get returns one analysis by ID.
func (s *AnalysisStore) Get(id string) (domain.SavedAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.private {
		record, ok := s.session[id]
		if !ok {
			return domain.SavedAnalysis{}, apperrors.NewNotFoundError("analysis " + id)
		}
		return record, nil
	}

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SavedAnalysis{}, apperrors.NewNotFoundError("analysis " + id)
		}
		return domain.SavedAnalysis{}, apperrors.NewStorageError("read analysis", err)
	}

	var record domain.SavedAnalysis
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.SavedAnalysis{}, apperrors.NewStorageError("decode analysis", err)
	}
	return record, nil
}

// List returns every saved analysis, newest first.
func (s *AnalysisStore) List() ([]domain.SavedAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.SavedAnalysis
	if s.private {
		for _, record := range s.session {
			records = append(records, record)
		}
	} else {
		entries, err := os.ReadDir(s.dataDir)
		if err != nil {
			return nil, apperrors.NewStorageError("list analyses", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.dataDir, entry.Name()))
			if err != nil {
				return nil, apperrors.NewStorageError("read analysis", err)
			}
			var record domain.SavedAnalysis
			if err := json.Unmarshal(data, &record); err != nil {
				s.logger.Warn("skipping corrupt analysis file",
					slog.String("file", entry.Name()),
					slog.String("error", err.Error()))
				continue
			}
			records = append(records, record)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Delete removes one analysis by ID.
func (s *AnalysisStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.private {
		if _, ok := s.session[id]; !ok {
			return apperrors.NewNotFoundError("analysis " + id)
		}
		delete(s.session, id)
		return nil
	}

	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewNotFoundError("analysis " + id)
		}
		return apperrors.NewStorageError("delete analysis", err)
	}
	return nil
}

// Clear removes every saved analysis.
func (s *AnalysisStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.private {
		s.session = make(map[string]domain.SavedAnalysis)
		return nil
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return apperrors.NewStorageError("list analyses", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dataDir, entry.Name())); err != nil {
			return apperrors.NewStorageError("delete analysis", err)
		}
	}
	return nil
}

func (s *AnalysisStore) recordPath(id string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s.json", id))
}

func (s *AnalysisStore) writeRecord(record domain.SavedAnalysis) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("encode analysis", err)
	}
	if err := os.WriteFile(s.recordPath(record.ID), data, 0644); err != nil {
		return apperrors.NewStorageError("write analysis", err)
	}
	return nil
}
