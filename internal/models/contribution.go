package models

import (
	"time"

	"gorm.io/gorm"
)

type ContributionStatus string

const (
	ContributionPending ContributionStatus = "pending"
	ContributionEdited  ContributionStatus = "edited"
)

// ProposedDocument is a user-submitted document awaiting admin review.
// OwnerID is set at creation and never reassigned.
type ProposedDocument struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OwnerID uint `json:"owner_id" gorm:"not null;index"`

	Name     string `json:"name" gorm:"not null;size:200"`
	Picture  string `json:"picture" gorm:"size:500"`
	Type     string `json:"type" gorm:"size:100"`
	Duration int    `json:"duration"`

	Status ContributionStatus `json:"status" gorm:"not null;size:20;default:pending"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

func (ProposedDocument) TableName() string {
	return "proposed_documents"
}

// Fix is a user-submitted correction against a published document.
// Admins never own fixes; they edit documents directly.
type Fix struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	OwnerID    uint `json:"owner_id" gorm:"not null;index"`
	DocumentID uint `json:"document_id" gorm:"not null;index"`

	DocName        string `json:"doc_name" gorm:"size:200"`
	DocPicture     string `json:"doc_picture" gorm:"size:500"`
	ProposedChange string `json:"proposed_change" gorm:"type:text"`

	Status ContributionStatus `json:"status" gorm:"not null;size:20;default:pending"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Owner    User     `json:"-" gorm:"foreignKey:OwnerID"`
	Document Document `json:"-" gorm:"foreignKey:DocumentID"`
}

func (Fix) TableName() string {
	return "fixes"
}

// ContributionSummary is the admin queue projection; full detail requires a
// per-record fetch.
type ContributionSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *ProposedDocument) Summary() ContributionSummary {
	return ContributionSummary{ID: p.ID, Name: p.Name, Picture: p.Picture}
}

func (f *Fix) Summary() ContributionSummary {
	return ContributionSummary{ID: f.ID, Name: f.DocName, Picture: f.DocPicture}
}
