package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
	"github.com/crowddocs/contribution-service/internal/validator"
)

type contributionService struct {
	repo      repositories.Repository
	catalog   CatalogInvalidator
	logger    *slog.Logger
	validator *validator.Validator
}

// CatalogInvalidator lets the lifecycle engine drop catalog caches when an
// admin publishes directly. The catalog service implements it; tests pass nil.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

func NewContributionService(repo repositories.Repository, catalog CatalogInvalidator, logger *slog.Logger, validator *validator.Validator) ContributionService {
	return &contributionService{
		repo:      repo,
		catalog:   catalog,
		logger:    logger,
		validator: validator,
	}
}

// CreateDocumentOrProposal branches on caller role: admins insert straight
// into the published catalog, everyone else lands in the moderation queue.
func (s *contributionService) CreateDocumentOrProposal(ctx context.Context, caller auth.Identity, req *CreateDocumentRequest) (*CreateDocumentResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if caller.IsAdmin() {
		doc := &models.Document{
			Name:     req.Name,
			Picture:  req.Picture,
			Type:     req.Type,
			Duration: req.Duration,
		}
		if len(req.RelatedDocIDs) > 0 {
			raw, err := json.Marshal(req.RelatedDocIDs)
			if err != nil {
				return nil, fmt.Errorf("encode related doc ids: %w", err)
			}
			doc.RelatedDocIDs = raw
		}
		if err := s.repo.Document().Create(ctx, nil, doc); err != nil {
			return nil, fmt.Errorf("create document: %w", err)
		}

		s.logger.Info("Document published directly", "document_id", doc.ID, "admin_id", caller.UserID)
		if s.catalog != nil {
			s.catalog.InvalidateCatalog(ctx)
		}
		return &CreateDocumentResponse{Published: true, Document: doc}, nil
	}

	proposal := &models.ProposedDocument{
		OwnerID:  caller.UserID,
		Name:     req.Name,
		Picture:  req.Picture,
		Type:     req.Type,
		Duration: req.Duration,
		Status:   models.ContributionPending,
	}
	if err := s.repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
		return nil, fmt.Errorf("create proposed document: %w", err)
	}

	s.logger.Info("Document proposed", "proposal_id", proposal.ID, "owner_id", caller.UserID)
	return &CreateDocumentResponse{Published: false, Proposal: proposal}, nil
}

// ProposeFix inserts a correction owned by the caller. Admins are rejected:
// they correct published documents directly rather than queueing fixes.
func (s *contributionService) ProposeFix(ctx context.Context, caller auth.Identity, docID uint, req *ProposeFixRequest) (*models.Fix, error) {
	if err := auth.RequireRole(caller, models.RoleUser); err != nil {
		return nil, NewPermissionError(caller.UserID, docID, "fix", "propose", "admins correct documents directly")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	doc, err := s.repo.Document().GetByID(ctx, nil, docID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	fix := &models.Fix{
		OwnerID:        caller.UserID,
		DocumentID:     doc.ID,
		DocName:        req.DocName,
		DocPicture:     req.DocPicture,
		ProposedChange: req.ProposedChange,
		Status:         models.ContributionPending,
	}
	if fix.DocName == "" {
		fix.DocName = doc.Name
	}
	if fix.DocPicture == "" {
		fix.DocPicture = doc.Picture
	}

	if err := s.repo.Fix().Create(ctx, nil, fix); err != nil {
		return nil, fmt.Errorf("create fix: %w", err)
	}

	s.logger.Info("Fix proposed", "fix_id", fix.ID, "document_id", doc.ID, "owner_id", caller.UserID)
	return fix, nil
}

// UpdateProposedDocument applies a partial update after the owner-or-admin
// check. The ownership check precedes the write; the read-check-write
// sequence is not transactional.
func (s *contributionService) UpdateProposedDocument(ctx context.Context, caller auth.Identity, id uint, req *UpdateProposedDocumentRequest) (*models.ProposedDocument, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	proposal, err := s.repo.ProposedDocument().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposed document: %w", err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, proposal.OwnerID); err != nil {
		return nil, NewPermissionError(caller.UserID, id, "proposed_document", "update", "not owner or admin")
	}

	if req.Name != nil {
		proposal.Name = *req.Name
	}
	if req.Picture != nil {
		proposal.Picture = *req.Picture
	}
	if req.Type != nil {
		proposal.Type = *req.Type
	}
	if req.Duration != nil {
		proposal.Duration = *req.Duration
	}
	proposal.Status = models.ContributionEdited

	if err := s.repo.ProposedDocument().Update(ctx, nil, proposal); err != nil {
		return nil, fmt.Errorf("update proposed document: %w", err)
	}

	return proposal, nil
}

func (s *contributionService) UpdateFix(ctx context.Context, caller auth.Identity, id uint, req *UpdateFixRequest) (*models.Fix, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	fix, err := s.repo.Fix().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get fix: %w", err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, fix.OwnerID); err != nil {
		return nil, NewPermissionError(caller.UserID, id, "fix", "update", "not owner or admin")
	}

	if req.DocName != nil {
		fix.DocName = *req.DocName
	}
	if req.DocPicture != nil {
		fix.DocPicture = *req.DocPicture
	}
	if req.ProposedChange != nil {
		fix.ProposedChange = *req.ProposedChange
	}
	fix.Status = models.ContributionEdited

	if err := s.repo.Fix().Update(ctx, nil, fix); err != nil {
		return nil, fmt.Errorf("update fix: %w", err)
	}

	return fix, nil
}

// DeleteProposedDocument removes a record under the same ownership contract
// as update and returns it for client-side audit.
func (s *contributionService) DeleteProposedDocument(ctx context.Context, caller auth.Identity, id uint) (*models.ProposedDocument, error) {
	proposal, err := s.repo.ProposedDocument().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposed document: %w", err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, proposal.OwnerID); err != nil {
		return nil, NewPermissionError(caller.UserID, id, "proposed_document", "delete", "not owner or admin")
	}

	if err := s.repo.ProposedDocument().Delete(ctx, nil, id); err != nil {
		return nil, fmt.Errorf("delete proposed document: %w", err)
	}

	s.logger.Info("Proposed document deleted", "proposal_id", id, "caller_id", caller.UserID)
	return proposal, nil
}

func (s *contributionService) DeleteFix(ctx context.Context, caller auth.Identity, id uint) (*models.Fix, error) {
	fix, err := s.repo.Fix().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get fix: %w", err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, fix.OwnerID); err != nil {
		return nil, NewPermissionError(caller.UserID, id, "fix", "delete", "not owner or admin")
	}

	if err := s.repo.Fix().Delete(ctx, nil, id); err != nil {
		return nil, fmt.Errorf("delete fix: %w", err)
	}

	s.logger.Info("Fix deleted", "fix_id", id, "caller_id", caller.UserID)
	return fix, nil
}

func (s *contributionService) ListMyProposedDocuments(ctx context.Context, caller auth.Identity) ([]*models.ProposedDocument, error) {
	docs, err := s.repo.ProposedDocument().ListByOwner(ctx, nil, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list proposed documents by owner: %w", err)
	}
	return docs, nil
}

func (s *contributionService) ListMyFixes(ctx context.Context, caller auth.Identity) ([]*models.Fix, error) {
	fixes, err := s.repo.Fix().ListByOwner(ctx, nil, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list fixes by owner: %w", err)
	}
	return fixes, nil
}

func (s *contributionService) ListAllProposedDocuments(ctx context.Context, caller auth.Identity) ([]models.ContributionSummary, error) {
	if err := auth.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, NewPermissionError(caller.UserID, 0, "proposed_document", "list_all", "admin only")
	}

	docs, err := s.repo.ProposedDocument().ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list proposed documents: %w", err)
	}

	summaries := make([]models.ContributionSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}
	return summaries, nil
}

func (s *contributionService) ListAllFixes(ctx context.Context, caller auth.Identity) ([]models.ContributionSummary, error) {
	if err := auth.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, NewPermissionError(caller.UserID, 0, "fix", "list_all", "admin only")
	}

	fixes, err := s.repo.Fix().ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list fixes: %w", err)
	}

	summaries := make([]models.ContributionSummary, 0, len(fixes))
	for _, fix := range fixes {
		summaries = append(summaries, fix.Summary())
	}
	return summaries, nil
}

// GetProposedDocument returns full detail; admins may view any record,
// non-admins only their own.
func (s *contributionService) GetProposedDocument(ctx context.Context, caller auth.Identity, id uint) (*models.ProposedDocument, error) {
	proposal, err := s.repo.ProposedDocument().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposed document: %w", err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, proposal.OwnerID); err != nil {
		return nil, NewPermissionError(caller.UserID, id, "proposed_document", "read", "not owner or admin")
	}

	return proposal, nil
}

func (s *contributionService) GetFix(ctx context.Context, caller auth.Identity, id uint) (*models.Fix, error) {
	fix, err := s.repo.Fix().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get fix: %w", err)
	}

	if err := auth.RequireOwnerOrAdmin(caller, fix.OwnerID); err != nil {
		return nil, NewPermissionError(caller.UserID, id, "fix", "read", "not owner or admin")
	}

	return fix, nil
}
