package repositories

import "context"

// Repository aggregates the per-entity repository interfaces.
type Repository interface {
	User() UserRepository
	Document() DocumentRepository
	ProposedDocument() ProposedDocumentRepository
	Fix() FixRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
