package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crowddocs/contribution-service/internal/cache"
	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
)

type catalogService struct {
	repo   repositories.Repository
	cache  *cache.CacheHelper
	logger *slog.Logger
}

func NewCatalogService(repo repositories.Repository, cacheHelper *cache.CacheHelper, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  cacheHelper,
		logger: logger,
	}
}

// ListDocuments returns the published catalog as summaries, newest first.
func (s *catalogService) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	var cached []models.DocumentSummary
	if err := s.cache.Get(ctx, "list", &cached); err == nil {
		return cached, nil
	}

	docs, err := s.repo.Document().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	summaries := make([]models.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}

	if err := s.cache.Set(ctx, "list", summaries, cache.CatalogCacheConfig.TTL); err != nil {
		s.logger.Warn("Failed to cache document list", "error", err)
	}

	return summaries, nil
}

// GetDocumentDetails resolves a document and the summaries of its related
// documents. A missing or malformed related-id list reads as empty.
func (s *catalogService) GetDocumentDetails(ctx context.Context, id uint) (*DocumentDetailResponse, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)
	var cached DocumentDetailResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	doc, err := s.repo.Document().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	related := []models.DocumentSummary{}
	if ids := doc.RelatedIDs(); len(ids) > 0 {
		relatedDocs, err := s.repo.Document().GetByIDs(ctx, nil, ids)
		if err != nil {
			return nil, fmt.Errorf("get related documents: %w", err)
		}
		for _, rd := range relatedDocs {
			related = append(related, rd.Summary())
		}
	}

	detail := &DocumentDetailResponse{Document: doc, Related: related}

	if err := s.cache.Set(ctx, cacheKey, detail, cache.CatalogCacheConfig.TTL); err != nil {
		s.logger.Warn("Failed to cache document detail", "error", err, "document_id", id)
	}

	return detail, nil
}

// InvalidateCatalog drops cached catalog entries after a direct publish.
func (s *catalogService) InvalidateCatalog(ctx context.Context) {
	cache.SafeDelete(ctx, s.cache, "list")
	cache.SafeInvalidatePattern(ctx, s.cache, "detail:*")
}
