package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
)

// memRepository is an in-memory Repository for service tests. The tx handle
// is ignored; every call operates on the shared maps.
type memRepository struct {
	mu sync.Mutex

	users     map[uint]*models.User
	documents map[uint]*models.Document
	proposals map[uint]*models.ProposedDocument
	fixes     map[uint]*models.Fix

	nextUserID     uint
	nextDocumentID uint
	nextProposalID uint
	nextFixID      uint
}

func newMemRepository() *memRepository {
	return &memRepository{
		users:     make(map[uint]*models.User),
		documents: make(map[uint]*models.Document),
		proposals: make(map[uint]*models.ProposedDocument),
		fixes:     make(map[uint]*models.Fix),
	}
}

func (m *memRepository) User() repositories.UserRepository                         { return (*memUserRepo)(m) }
func (m *memRepository) Document() repositories.DocumentRepository                 { return (*memDocumentRepo)(m) }
func (m *memRepository) ProposedDocument() repositories.ProposedDocumentRepository { return (*memProposalRepo)(m) }
func (m *memRepository) Fix() repositories.FixRepository                           { return (*memFixRepo)(m) }

func (m *memRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memRepository) Ping(ctx context.Context) error { return nil }
func (m *memRepository) Close() error                   { return nil }

// ===== USERS =====

type memUserRepo memRepository

func (r *memUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextUserID++
	user.ID = r.nextUserID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) Update(_ context.Context, _ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, _ *gorm.DB, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== DOCUMENTS =====

type memDocumentRepo memRepository

func (r *memDocumentRepo) Create(_ context.Context, _ *gorm.DB, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextDocumentID++
	doc.ID = r.nextDocumentID
	copied := *doc
	r.documents[doc.ID] = &copied
	return nil
}

func (r *memDocumentRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.documents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *memDocumentRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uint) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*models.Document
	for _, id := range ids {
		if doc, ok := r.documents[id]; ok {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}

func (r *memDocumentRepo) List(_ context.Context, _ *gorm.DB) ([]*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*models.Document
	for id := uint(1); id <= r.nextDocumentID; id++ {
		if doc, ok := r.documents[id]; ok {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}

// ===== PROPOSED DOCUMENTS =====

type memProposalRepo memRepository

func (r *memProposalRepo) Create(_ context.Context, _ *gorm.DB, doc *models.ProposedDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextProposalID++
	doc.ID = r.nextProposalID
	copied := *doc
	r.proposals[doc.ID] = &copied
	return nil
}

func (r *memProposalRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.ProposedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.proposals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *memProposalRepo) Update(_ context.Context, _ *gorm.DB, doc *models.ProposedDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[doc.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *doc
	r.proposals[doc.ID] = &copied
	return nil
}

func (r *memProposalRepo) Delete(_ context.Context, _ *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.proposals, id)
	return nil
}

func (r *memProposalRepo) ListByOwner(_ context.Context, _ *gorm.DB, ownerID uint) ([]*models.ProposedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*models.ProposedDocument
	for id := uint(1); id <= r.nextProposalID; id++ {
		if doc, ok := r.proposals[id]; ok && doc.OwnerID == ownerID {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}

func (r *memProposalRepo) ListAll(_ context.Context, _ *gorm.DB) ([]*models.ProposedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*models.ProposedDocument
	for id := uint(1); id <= r.nextProposalID; id++ {
		if doc, ok := r.proposals[id]; ok {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}

// ===== FIXES =====

type memFixRepo memRepository

func (r *memFixRepo) Create(_ context.Context, _ *gorm.DB, fix *models.Fix) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextFixID++
	fix.ID = r.nextFixID
	copied := *fix
	r.fixes[fix.ID] = &copied
	return nil
}

func (r *memFixRepo) GetByID(_ context.Context, _ *gorm.DB, id uint) (*models.Fix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fix, ok := r.fixes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *fix
	return &copied, nil
}

func (r *memFixRepo) Update(_ context.Context, _ *gorm.DB, fix *models.Fix) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fixes[fix.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *fix
	r.fixes[fix.ID] = &copied
	return nil
}

func (r *memFixRepo) Delete(_ context.Context, _ *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fixes, id)
	return nil
}

func (r *memFixRepo) ListByOwner(_ context.Context, _ *gorm.DB, ownerID uint) ([]*models.Fix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fixes []*models.Fix
	for id := uint(1); id <= r.nextFixID; id++ {
		if fix, ok := r.fixes[id]; ok && fix.OwnerID == ownerID {
			copied := *fix
			fixes = append(fixes, &copied)
		}
	}
	return fixes, nil
}

func (r *memFixRepo) ListAll(_ context.Context, _ *gorm.DB) ([]*models.Fix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fixes []*models.Fix
	for id := uint(1); id <= r.nextFixID; id++ {
		if fix, ok := r.fixes[id]; ok {
			copied := *fix
			fixes = append(fixes, &copied)
		}
	}
	return fixes, nil
}
