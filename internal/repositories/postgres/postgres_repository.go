package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/crowddocs/contribution-service/internal/repositories"
)

// RepositoryConfig holds dependencies for the postgres repository set.
type RepositoryConfig struct {
	DB *gorm.DB
}

type repository struct {
	db *gorm.DB

	user     repositories.UserRepository
	document repositories.DocumentRepository
	proposed repositories.ProposedDocumentRepository
	fix      repositories.FixRepository
}

// NewRepository builds the aggregate repository over a gorm connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:       db,
		user:     NewUserRepository(db),
		document: NewDocumentRepository(db),
		proposed: NewProposedDocumentRepository(db),
		fix:      NewFixRepository(db),
	}
}

func (r *repository) User() repositories.UserRepository                 { return r.user }
func (r *repository) Document() repositories.DocumentRepository         { return r.document }
func (r *repository) ProposedDocument() repositories.ProposedDocumentRepository {
	return r.proposed
}
func (r *repository) Fix() repositories.FixRepository { return r.fix }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// repositoryManager implements repositories.RepositoryManager.
type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = NewRepository(m.config.DB)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}

// getDB resolves the connection a repository call should use.
func getDB(base *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}
