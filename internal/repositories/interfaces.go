package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/crowddocs/contribution-service/internal/models"
)

// Repositories accept an optional transaction handle so service-level
// transactions can reuse the same interface; nil means the base connection.

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, doc *models.Document) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Document, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Document, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Document, error)
}

type ProposedDocumentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, doc *models.ProposedDocument) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ProposedDocument, error)
	Update(ctx context.Context, tx *gorm.DB, doc *models.ProposedDocument) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint) ([]*models.ProposedDocument, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.ProposedDocument, error)
}

type FixRepository interface {
	Create(ctx context.Context, tx *gorm.DB, fix *models.Fix) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Fix, error)
	Update(ctx context.Context, tx *gorm.DB, fix *models.Fix) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uint) ([]*models.Fix, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Fix, error)
}
