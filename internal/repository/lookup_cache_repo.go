package repository

import (
	"context"
	"errors"
	"time"

	"timologio/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LookupCacheRepository implements vat.CacheStore on top of the
// vat_lookup_cache table. Expired rows are never served; they are overwritten
// on the next Set and swept opportunistically.
type LookupCacheRepository struct {
	db *gorm.DB
}

func NewLookupCacheRepository(db *gorm.DB) *LookupCacheRepository {
	return &LookupCacheRepository{db: db}
}

func (r *LookupCacheRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.VATLookupCache
	err := r.db.WithContext(ctx).First(&entry, "cache_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if time.Now().UTC().After(entry.ExpiresAt) {
		return "", false, nil
	}

	return entry.Body, true, nil
}

func (r *LookupCacheRepository) Set(ctx context.Context, key, provider, body string, ttl time.Duration) error {
	entry := model.VATLookupCache{
		CacheKey:  key,
		Provider:  provider,
		Body:      body,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider", "body", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return err
	}

	// Best-effort sweep of stale rows; failure never blocks the write.
	r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC().Add(-24*time.Hour)).
		Delete(&model.VATLookupCache{})

	return nil
}
