package services

import (
	"context"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/models"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
}

// ContributionService is the lifecycle engine for the moderation queue.
// Callers are explicit Identity values; every mutation runs its guard check
// before any storage write.
type ContributionService interface {
	// Role-branched entrypoint: admins publish directly, users propose.
	CreateDocumentOrProposal(ctx context.Context, caller auth.Identity, req *CreateDocumentRequest) (*CreateDocumentResponse, error)

	// Fixes may only be proposed by the user role; admins edit documents
	// directly instead.
	ProposeFix(ctx context.Context, caller auth.Identity, docID uint, req *ProposeFixRequest) (*models.Fix, error)

	UpdateProposedDocument(ctx context.Context, caller auth.Identity, id uint, req *UpdateProposedDocumentRequest) (*models.ProposedDocument, error)
	UpdateFix(ctx context.Context, caller auth.Identity, id uint, req *UpdateFixRequest) (*models.Fix, error)

	// Deletes return the removed record so clients can audit or undo.
	DeleteProposedDocument(ctx context.Context, caller auth.Identity, id uint) (*models.ProposedDocument, error)
	DeleteFix(ctx context.Context, caller auth.Identity, id uint) (*models.Fix, error)

	ListMyProposedDocuments(ctx context.Context, caller auth.Identity) ([]*models.ProposedDocument, error)
	ListMyFixes(ctx context.Context, caller auth.Identity) ([]*models.Fix, error)

	// Admin-only platform-wide queue views, projected to summaries.
	ListAllProposedDocuments(ctx context.Context, caller auth.Identity) ([]models.ContributionSummary, error)
	ListAllFixes(ctx context.Context, caller auth.Identity) ([]models.ContributionSummary, error)

	// Full-detail reads: admin may view any record, owners their own.
	GetProposedDocument(ctx context.Context, caller auth.Identity, id uint) (*models.ProposedDocument, error)
	GetFix(ctx context.Context, caller auth.Identity, id uint) (*models.Fix, error)
}

type CatalogService interface {
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)
	GetDocumentDetails(ctx context.Context, id uint) (*DocumentDetailResponse, error)
}

type UserService interface {
	GetProfile(ctx context.Context, caller auth.Identity) (*UserResponse, error)
	UpdateProfile(ctx context.Context, caller auth.Identity, req *UpdateProfileRequest) (*UserResponse, error)
}

type ExportService interface {
	// ExportModerationQueue renders the pending queues to an xlsx workbook.
	ExportModerationQueue(ctx context.Context, caller auth.Identity) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Contribution() ContributionService
	Catalog() CatalogService
	User() UserService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
