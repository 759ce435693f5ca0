package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) repositories.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, tx *gorm.DB, doc *models.Document) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Document, error) {
	db := getDB(r.db, tx)
	var doc models.Document
	if err := db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, fmt.Errorf("get document by id: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := getDB(r.db, tx)
	var docs []*models.Document
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("get documents by ids: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Document, error) {
	db := getDB(r.db, tx)
	var docs []*models.Document
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
