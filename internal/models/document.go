package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is a published catalog entry. Only admins create these directly;
// non-admin submissions land in proposed_documents instead.
type Document struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:200"`
	Picture  string `json:"picture" gorm:"size:500"`
	Type     string `json:"type" gorm:"size:100"`
	Duration int    `json:"duration"`

	// Ids of related published documents, stored inline as a JSON array.
	// NULL or malformed content reads as an empty set.
	RelatedDocIDs datatypes.JSON `json:"related_doc_ids" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}

// RelatedIDs decodes the inline id list, treating absent or malformed
// content as empty rather than failing.
func (d *Document) RelatedIDs() []uint {
	if len(d.RelatedDocIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(d.RelatedDocIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// DocumentSummary is the projection used by list endpoints and the
// related-documents section of a detail response.
type DocumentSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Type    string `json:"type"`
}

func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:      d.ID,
		Name:    d.Name,
		Picture: d.Picture,
		Type:    d.Type,
	}
}
