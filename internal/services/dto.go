package services

import (
	"github.com/crowddocs/contribution-service/internal/models"
)

// ===== AUTH =====

type RegisterRequest struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	ID       uint        `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Verified bool        `json:"verified"`
}

func toUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
	}
}

// RegisterResponse reports whether the verification email event went out;
// a false value is informational, not an error (best-effort notification).
type RegisterResponse struct {
	User      *UserResponse `json:"user"`
	EmailSent bool          `json:"emailSent"`
}

// LoginResult carries the issued auth token; the handler owns the cookie.
type LoginResult struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"-"`
}

// ===== CONTRIBUTIONS =====

type CreateDocumentRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Picture       string `json:"picture" validate:"omitempty,max=500"`
	Type          string `json:"type" validate:"omitempty,max=100"`
	Duration      int    `json:"duration" validate:"omitempty,min=0"`
	RelatedDocIDs []uint `json:"related_doc_ids"`
}

// CreateDocumentResponse holds exactly one of Document (admin direct create)
// or Proposal (non-admin submission).
type CreateDocumentResponse struct {
	Published bool                     `json:"published"`
	Document  *models.Document         `json:"document,omitempty"`
	Proposal  *models.ProposedDocument `json:"proposal,omitempty"`
}

type ProposeFixRequest struct {
	DocName        string `json:"doc_name" validate:"omitempty,max=200"`
	DocPicture     string `json:"doc_picture" validate:"omitempty,max=500"`
	ProposedChange string `json:"proposed_change" validate:"required"`
}

type UpdateProposedDocumentRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Picture  *string `json:"picture" validate:"omitempty,max=500"`
	Type     *string `json:"type" validate:"omitempty,max=100"`
	Duration *int    `json:"duration" validate:"omitempty,min=0"`
}

type UpdateFixRequest struct {
	DocName        *string `json:"doc_name" validate:"omitempty,max=200"`
	DocPicture     *string `json:"doc_picture" validate:"omitempty,max=500"`
	ProposedChange *string `json:"proposed_change" validate:"omitempty"`
}

// ===== CATALOG =====

type DocumentDetailResponse struct {
	Document *models.Document         `json:"document"`
	Related  []models.DocumentSummary `json:"related"`
}

// ===== USERS =====

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
