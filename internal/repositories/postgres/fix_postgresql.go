package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
)

type fixRepository struct {
	db *gorm.DB
}

func NewFixRepository(db *gorm.DB) repositories.FixRepository {
	return &fixRepository{db: db}
}

func (r *fixRepository) Create(ctx context.Context, tx *gorm.DB, fix *models.Fix) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(fix).Error; err != nil {
		return fmt.Errorf("create fix: %w", err)
	}
	return nil
}

func (r *fixRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Fix, error) {
	db := getDB(r.db, tx)
	var fix models.Fix
	if err := db.WithContext(ctx).First(&fix, id).Error; err != nil {
		return nil, fmt.Errorf("get fix by id: %w", err)
	}
	return &fix, nil
}

func (r *fixRepository) Update(ctx context.Context, tx *gorm.DB, fix *models.Fix) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(fix).Error; err != nil {
		return fmt.Errorf("update fix: %w", err)
	}
	return nil
}

func (r *fixRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Fix{}, id).Error; err != nil {
		return fmt.Errorf("delete fix: %w", err)
	}
	return nil
}

func (r *fixRepository) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint) ([]*models.Fix, error) {
	db := getDB(r.db, tx)
	var fixes []*models.Fix
	if err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&fixes).Error; err != nil {
		return nil, fmt.Errorf("list fixes by owner: %w", err)
	}
	return fixes, nil
}

func (r *fixRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Fix, error) {
	db := getDB(r.db, tx)
	var fixes []*models.Fix
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&fixes).Error; err != nil {
		return nil, fmt.Errorf("list fixes: %w", err)
	}
	return fixes, nil
}
