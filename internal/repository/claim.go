package repository

import (
	"context"
	"errors"

	"reclaim/internal/models"

	"gorm.io/gorm"
)

// ClaimStore defines persistence operations for ownership claims.
type ClaimStore interface {
	Get(ctx context.Context, id string) (*models.Claim, error)
	Put(ctx context.Context, claim *models.Claim) error
	ListAll(ctx context.Context) ([]models.Claim, error)
	CountByStatus(ctx context.Context, status models.ClaimStatus) (int64, error)
}

type claimStore struct {
	db *gorm.DB
}

// NewClaimStore returns a GORM-backed ClaimStore implementation.
func NewClaimStore(db *gorm.DB) ClaimStore {
	return &claimStore{db: db}
}

func (s *claimStore) Get(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.WithContext(ctx).First(&claim, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Claim", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &claim, nil
}

func (s *claimStore) Put(ctx context.Context, claim *models.Claim) error {
	if err := s.db.WithContext(ctx).Save(claim).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *claimStore) ListAll(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	if err := s.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&claims).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return claims, nil
}

func (s *claimStore) CountByStatus(ctx context.Context, status models.ClaimStatus) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Claim{}).
		Where("status = ?", status).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
