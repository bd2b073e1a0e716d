package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// cacheEntry is one persisted key/value pair
type cacheEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (cacheEntry) TableName() string {
	return "cache_entries"
}

// SQLiteCacheStore implements the CacheStore interface on a SQLite file through gorm
type SQLiteCacheStore struct {
	db *gorm.DB
}

// NewSQLiteCacheStore opens (and migrates) the SQLite database at path
func NewSQLiteCacheStore(path string) (*SQLiteCacheStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteCacheStore{db: db}, nil
}

// Get retrieves the value stored under key
func (s *SQLiteCacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry cacheEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *SQLiteCacheStore) Set(ctx context.Context, key, value string) error {
	entry := cacheEntry{Key: key, Value: value}
	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *SQLiteCacheStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
