package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/cache"
	"github.com/crowddocs/contribution-service/internal/events"
	"github.com/crowddocs/contribution-service/internal/repositories"
	"github.com/crowddocs/contribution-service/internal/validator"
)

// serviceManager wires the service layer together and owns its lifecycle.
type serviceManager struct {
	repo      repositories.Repository
	issuer    *auth.Issuer
	publisher events.Publisher
	cache     *cache.CacheHelper
	logger    *slog.Logger
	validator *validator.Validator

	authService         AuthService
	contributionService ContributionService
	catalogService      CatalogService
	userService         UserService
	exportService       ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(
	repo repositories.Repository,
	issuer *auth.Issuer,
	publisher events.Publisher,
	cacheHelper *cache.CacheHelper,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		issuer:    issuer,
		publisher: publisher,
		cache:     cacheHelper,
		logger:    logger,
		validator: validator,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}

	catalog := NewCatalogService(sm.repo, sm.cache, sm.logger)
	sm.catalogService = catalog

	invalidator, _ := catalog.(CatalogInvalidator)
	sm.contributionService = NewContributionService(sm.repo, invalidator, sm.logger, sm.validator)
	sm.authService = NewAuthService(sm.repo, sm.issuer, sm.publisher, sm.logger, sm.validator)
	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator)
	sm.exportService = NewExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Services initialized")
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.authService
}

func (sm *serviceManager) Contribution() ContributionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.contributionService
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.catalogService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.exportService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("services not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("services are shut down")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.logger.Info("Services shut down")
	return nil
}
