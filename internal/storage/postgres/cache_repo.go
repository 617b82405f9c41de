package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/todaylotto/backend/internal/reportcache"
)

// CacheRepository implements report-cache persistence with PostgreSQL.
type CacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository creates a CacheRepository.
func NewCacheRepository(db *gorm.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Get returns the cached entry for key, or nil on a miss.
func (r *CacheRepository) Get(ctx context.Context, key string) (*reportcache.Entry, error) {
	var model ReportCacheModel
	err := r.db.WithContext(ctx).First(&model, "cache_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cache entry: %w", err)
	}
	return &reportcache.Entry{
		CacheKey:     model.CacheKey,
		CreatedAt:    model.CreatedAt,
		ResponseJSON: model.ResponseJSON,
	}, nil
}

// Put upserts a cache entry by key.
func (r *CacheRepository) Put(ctx context.Context, entry *reportcache.Entry) error {
	model := ReportCacheModel{
		CacheKey:     entry.CacheKey,
		CreatedAt:    entry.CreatedAt,
		ResponseJSON: entry.ResponseJSON,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"created_at", "response_json"}),
		}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("putting cache entry: %w", err)
	}
	return nil
}

// DeleteOlderThan purges entries created before cutoff and reports how
// many were removed.
func (r *CacheRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&ReportCacheModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("sweeping cache: %w", result.Error)
	}
	return result.RowsAffected, nil
}
