package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// ParquetBarStore persists the bar table as a single parquet file
// sorted by (Symbol, Date). Replace writes to a temp file in the same
// directory and renames it over the old one, so readers only ever see
// the previous or the new table, never a partial write.
type ParquetBarStore struct {
	path string
	l    *applogger.Logger
}

func NewParquetBarStore(path string, l *applogger.Logger) *ParquetBarStore {
	return &ParquetBarStore{path: path, l: l}
}

// Load reads the full store. A missing file is an empty history; a
// corrupt file is an error the caller decides how to recover from.
func (s *ParquetBarStore) Load(_ context.Context) ([]models.Bar, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open bar store: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bar store: %w", err)
	}
	rows, err := parquet.Read[models.Bar](f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("read bar store: %w", err)
	}
	for i := range rows {
		rows[i].Date = rows[i].Date.UTC()
	}
	return rows, nil
}

// Replace atomically swaps the store content.
func (s *ParquetBarStore) Replace(_ context.Context, bars []models.Bar) error {
	if !sort.SliceIsSorted(bars, func(i, j int) bool { return models.Less(bars[i], bars[j]) }) {
		return fmt.Errorf("replace bar store: input not sorted by (symbol, date)")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpPath := tmp.Name()

	w := parquet.NewGenericWriter[models.Bar](tmp)
	if _, err := w.Write(bars); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write bar store: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close bar store writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp store: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("swap bar store: %w", err)
	}
	if s.l != nil {
		s.l.Debug("bar store replaced",
			applogger.String("path", s.path),
			applogger.Int("rows", len(bars)),
		)
	}
	return nil
}

// Path returns the store file location.
func (s *ParquetBarStore) Path() string { return s.path }
