package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/crowddocs/contribution-service/internal/cache"
	"github.com/crowddocs/contribution-service/internal/models"
)

func newCatalogFixture() (*memRepository, CatalogService) {
	repo := newMemRepository()
	// Nil redis client degrades to a no-op cache; every read hits the repo.
	helper := cache.NewCacheHelper(nil, cache.CatalogCacheConfig.Prefix)
	return repo, NewCatalogService(repo, helper, testLogger())
}

func TestListDocuments(t *testing.T) {
	repo, svc := newCatalogFixture()
	ctx := context.Background()

	for _, name := range []string{"Harbor Log", "City Census"} {
		doc := &models.Document{Name: name, Picture: name + ".png"}
		if err := repo.Document().Create(ctx, nil, doc); err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}

	summaries, err := svc.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Name != "Harbor Log" || summaries[0].Picture != "Harbor Log.png" {
		t.Errorf("Summary = %+v, want name and picture of the seeded document", summaries[0])
	}
}

func TestGetDocumentDetails(t *testing.T) {
	repo, svc := newCatalogFixture()
	ctx := context.Background()

	related1 := &models.Document{Name: "Appendix A"}
	related2 := &models.Document{Name: "Appendix B"}
	for _, doc := range []*models.Document{related1, related2} {
		if err := repo.Document().Create(ctx, nil, doc); err != nil {
			t.Fatalf("seed related document: %v", err)
		}
	}

	main := &models.Document{
		Name:          "Harbor Log",
		RelatedDocIDs: datatypes.JSON([]byte(`[1,2]`)),
	}
	if err := repo.Document().Create(ctx, nil, main); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	detail, err := svc.GetDocumentDetails(ctx, main.ID)
	if err != nil {
		t.Fatalf("GetDocumentDetails() error = %v", err)
	}
	if detail.Document.Name != "Harbor Log" {
		t.Errorf("Document.Name = %q, want %q", detail.Document.Name, "Harbor Log")
	}
	if len(detail.Related) != 2 {
		t.Fatalf("Expected 2 related summaries, got %d", len(detail.Related))
	}
	if detail.Related[0].Name != "Appendix A" || detail.Related[1].Name != "Appendix B" {
		t.Errorf("Related = %+v, want both appendices", detail.Related)
	}
}

func TestGetDocumentDetailsEmptyRelated(t *testing.T) {
	repo, svc := newCatalogFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		raw  datatypes.JSON
	}{
		{"absent", nil},
		{"null", datatypes.JSON([]byte(`null`))},
		{"empty array", datatypes.JSON([]byte(`[]`))},
		{"malformed", datatypes.JSON([]byte(`{"oops":`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &models.Document{Name: "Standalone", RelatedDocIDs: tt.raw}
			if err := repo.Document().Create(ctx, nil, doc); err != nil {
				t.Fatalf("seed document: %v", err)
			}

			detail, err := svc.GetDocumentDetails(ctx, doc.ID)
			if err != nil {
				t.Fatalf("GetDocumentDetails() error = %v", err)
			}
			if detail.Related == nil {
				t.Error("Related must be an empty slice, not nil")
			}
			if len(detail.Related) != 0 {
				t.Errorf("Expected no related summaries, got %d", len(detail.Related))
			}
		})
	}
}

func TestGetDocumentDetailsNotFound(t *testing.T) {
	_, svc := newCatalogFixture()

	_, err := svc.GetDocumentDetails(context.Background(), 99)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}
