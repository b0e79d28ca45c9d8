package repository

import (
	"context"
	"errors"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key
var ErrKeyNotFound = errors.New("storage key not found")

// StorageRepository persists the small set of client keys (token, user,
// theme, language, loader flag) in one of two scopes.
type StorageRepository interface {
	Get(ctx context.Context, scope model.StorageScope, key string) (string, error)
	Set(ctx context.Context, scope model.StorageScope, key, value string) error
	Delete(ctx context.Context, scope model.StorageScope, key string) error
	ClearScope(ctx context.Context, scope model.StorageScope) error
}

type storageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepository {
	return &storageRepository{db: db}
}

func (r *storageRepository) Get(ctx context.Context, scope model.StorageScope, key string) (string, error) {
	var entry model.StorageEntry
	err := r.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		logger.Error("Failed to read storage entry", err, map[string]interface{}{
			"scope": scope,
			"key":   key,
		})
		return "", err
	}
	return entry.Value, nil
}

func (r *storageRepository) Set(ctx context.Context, scope model.StorageScope, key, value string) error {
	entry := model.StorageEntry{Scope: scope, Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		logger.Error("Failed to write storage entry", err, map[string]interface{}{
			"scope": scope,
			"key":   key,
		})
		return err
	}

	logger.Debug("Storage entry written", map[string]interface{}{
		"scope": scope,
		"key":   key,
	})
	return nil
}

func (r *storageRepository) Delete(ctx context.Context, scope model.StorageScope, key string) error {
	err := r.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		Delete(&model.StorageEntry{}).Error
	if err != nil {
		logger.Error("Failed to delete storage entry", err, map[string]interface{}{
			"scope": scope,
			"key":   key,
		})
		return err
	}
	return nil
}

func (r *storageRepository) ClearScope(ctx context.Context, scope model.StorageScope) error {
	result := r.db.WithContext(ctx).
		Where("scope = ?", scope).
		Delete(&model.StorageEntry{})
	if result.Error != nil {
		logger.Error("Failed to clear storage scope", result.Error, map[string]interface{}{
			"scope": scope,
		})
		return result.Error
	}

	logger.Info("Storage scope cleared", map[string]interface{}{
		"scope":   scope,
		"removed": result.RowsAffected,
	})
	return nil
}
