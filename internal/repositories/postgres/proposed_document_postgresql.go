package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
)

type proposedDocumentRepository struct {
	db *gorm.DB
}

func NewProposedDocumentRepository(db *gorm.DB) repositories.ProposedDocumentRepository {
	return &proposedDocumentRepository{db: db}
}

func (r *proposedDocumentRepository) Create(ctx context.Context, tx *gorm.DB, doc *models.ProposedDocument) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create proposed document: %w", err)
	}
	return nil
}

func (r *proposedDocumentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProposedDocument, error) {
	db := getDB(r.db, tx)
	var doc models.ProposedDocument
	if err := db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, fmt.Errorf("get proposed document by id: %w", err)
	}
	return &doc, nil
}

func (r *proposedDocumentRepository) Update(ctx context.Context, tx *gorm.DB, doc *models.ProposedDocument) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("update proposed document: %w", err)
	}
	return nil
}

func (r *proposedDocumentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.ProposedDocument{}, id).Error; err != nil {
		return fmt.Errorf("delete proposed document: %w", err)
	}
	return nil
}

func (r *proposedDocumentRepository) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint) ([]*models.ProposedDocument, error) {
	db := getDB(r.db, tx)
	var docs []*models.ProposedDocument
	if err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list proposed documents by owner: %w", err)
	}
	return docs, nil
}

func (r *proposedDocumentRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.ProposedDocument, error) {
	db := getDB(r.db, tx)
	var docs []*models.ProposedDocument
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list proposed documents: %w", err)
	}
	return docs, nil
}
