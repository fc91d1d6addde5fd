package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kline_feed/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Storage archives closed bars in SQLite. It implements domain.KlineRepository.
type Storage struct {
	db *gorm.DB
}

var _ domain.KlineRepository = (*Storage)(nil)

// NewStorage opens (or creates) the SQLite database at dbPath
func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		return nil, &domain.ConfigError{Field: "storage.path", Err: errors.New("empty path")}
	}

	// Ensure directory exists
	if dbDir := filepath.Dir(dbPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.KlineRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ======================================================================================
// Kline Operations
// ======================================================================================

// SaveKline inserts a bar or replaces the stored bar with the same open time
func (s *Storage) SaveKline(k domain.Kline) error {
	rec := domain.NewKlineRecord(k)
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
}

// FindKlines returns up to limit most recent bars, oldest first
func (s *Storage) FindKlines(symbol, interval string, limit int) ([]domain.Kline, error) {
	var records []domain.KlineRecord
	q := s.db.Where("symbol = ? AND interval = ?", symbol, interval).Order("open_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Kline, len(records))
	for i := range records {
		result[len(records)-1-i] = records[i].Kline()
	}
	return result, nil
}

// LatestKline returns the most recent bar, or nil when none is stored
func (s *Storage) LatestKline(symbol, interval string) (*domain.Kline, error) {
	var rec domain.KlineRecord
	err := s.db.Where("symbol = ? AND interval = ?", symbol, interval).
		Order("open_time DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, err
	}
	k := rec.Kline()
	return &k, nil
}

// DeleteKlines removes every bar of symbol/interval
func (s *Storage) DeleteKlines(symbol, interval string) error {
	return s.db.Where("symbol = ? AND interval = ?", symbol, interval).Delete(&domain.KlineRecord{}).Error
}
