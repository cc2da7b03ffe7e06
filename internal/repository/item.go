// Package repository implements the data access layer for the moderation
// store. Each entity kind gets a small storage interface (get, put, list,
// counts) so the workflow engine never depends on a concrete backend; a
// GORM/Postgres implementation backs deployments and an in-memory
// implementation backs tests and single-process use.
package repository

import (
	"context"
	"errors"

	"reclaim/internal/models"

	"gorm.io/gorm"
)

// ItemStore defines persistence operations for items.
type ItemStore interface {
	Get(ctx context.Context, id string) (*models.Item, error)
	Put(ctx context.Context, item *models.Item) error
	ListAll(ctx context.Context) ([]models.Item, error)
	CountByStatus(ctx context.Context, status models.ItemStatus) (int64, error)
	CountReported(ctx context.Context) (int64, error)
	CountSpam(ctx context.Context, threshold float64) (int64, error)
}

type itemStore struct {
	db *gorm.DB
}

// NewItemStore returns a GORM-backed ItemStore implementation.
func NewItemStore(db *gorm.DB) ItemStore {
	return &itemStore{db: db}
}

func (s *itemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Item", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (s *itemStore) Put(ctx context.Context, item *models.Item) error {
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *itemStore) ListAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (s *itemStore) CountByStatus(ctx context.Context, status models.ItemStatus) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("status = ?", status).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (s *itemStore) CountReported(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("report_count > 0").
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (s *itemStore) CountSpam(ctx context.Context, threshold float64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("spam_score >= ?", threshold).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
