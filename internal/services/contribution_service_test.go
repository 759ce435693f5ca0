package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/cache"
	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingInvalidator counts cache invalidations triggered by direct
// publishes.
type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) InvalidateCatalog(_ context.Context) {
	r.calls++
}

func newContributionFixture() (*memRepository, *recordingInvalidator, ContributionService) {
	repo := newMemRepository()
	invalidator := &recordingInvalidator{}
	svc := NewContributionService(repo, invalidator, testLogger(), validator.New())
	return repo, invalidator, svc
}

func TestCreateDocumentOrProposalAdminPublishesDirectly(t *testing.T) {
	repo, invalidator, svc := newContributionFixture()
	ctx := context.Background()

	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}
	resp, err := svc.CreateDocumentOrProposal(ctx, admin, &CreateDocumentRequest{
		Name:          "Municipal Archive Guide",
		Type:          "guide",
		Duration:      30,
		RelatedDocIDs: []uint{7, 9},
	})
	if err != nil {
		t.Fatalf("CreateDocumentOrProposal() error = %v", err)
	}

	if !resp.Published {
		t.Error("Expected Published=true for admin caller")
	}
	if resp.Document == nil {
		t.Fatal("Expected a Document in the response")
	}
	if resp.Proposal != nil {
		t.Error("Expected no Proposal in the response for admin caller")
	}

	stored, err := repo.Document().GetByID(ctx, nil, resp.Document.ID)
	if err != nil {
		t.Fatalf("Document not persisted: %v", err)
	}
	if got := stored.RelatedIDs(); len(got) != 2 || got[0] != 7 || got[1] != 9 {
		t.Errorf("RelatedIDs() = %v, want [7 9]", got)
	}

	if len(repo.proposals) != 0 {
		t.Error("Admin create must not touch the moderation queue")
	}
	if invalidator.calls != 1 {
		t.Errorf("Expected 1 catalog invalidation, got %d", invalidator.calls)
	}

	// The published document is visible through the public catalog.
	catalog := NewCatalogService(repo, cache.NewCacheHelper(nil, cache.CatalogCacheConfig.Prefix), testLogger())
	summaries, err := catalog.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "Municipal Archive Guide" {
		t.Errorf("Catalog = %+v, want the published document", summaries)
	}
}

func TestCreateDocumentOrProposalUserQueuesProposal(t *testing.T) {
	repo, invalidator, svc := newContributionFixture()
	ctx := context.Background()

	user := auth.Identity{UserID: 4, Role: models.RoleUser}
	resp, err := svc.CreateDocumentOrProposal(ctx, user, &CreateDocumentRequest{
		Name: "Harbor Records 1912",
		Type: "archive",
	})
	if err != nil {
		t.Fatalf("CreateDocumentOrProposal() error = %v", err)
	}

	if resp.Published {
		t.Error("Expected Published=false for non-admin caller")
	}
	if resp.Proposal == nil {
		t.Fatal("Expected a Proposal in the response")
	}
	if resp.Proposal.OwnerID != user.UserID {
		t.Errorf("Proposal.OwnerID = %d, want %d", resp.Proposal.OwnerID, user.UserID)
	}
	if resp.Proposal.Status != models.ContributionPending {
		t.Errorf("Proposal.Status = %q, want %q", resp.Proposal.Status, models.ContributionPending)
	}

	if len(repo.documents) != 0 {
		t.Error("Non-admin create must not publish into the catalog")
	}
	if invalidator.calls != 0 {
		t.Error("Non-admin create must not invalidate the catalog cache")
	}

	// The proposal shows up in the owner's queue, not the public catalog.
	catalog := NewCatalogService(repo, cache.NewCacheHelper(nil, cache.CatalogCacheConfig.Prefix), testLogger())
	summaries, err := catalog.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Catalog = %+v, want empty", summaries)
	}

	mine, err := svc.ListMyProposedDocuments(ctx, user)
	if err != nil {
		t.Fatalf("ListMyProposedDocuments() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Harbor Records 1912" {
		t.Errorf("Own queue = %+v, want the submitted proposal", mine)
	}
}

func TestCreateDocumentOrProposalValidation(t *testing.T) {
	_, _, svc := newContributionFixture()

	_, err := svc.CreateDocumentOrProposal(context.Background(), auth.Identity{UserID: 4, Role: models.RoleUser}, &CreateDocumentRequest{})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors for missing name, got %v", err)
	}
}

func TestProposeFix(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	doc := &models.Document{Name: "City Census 1890", Picture: "census.png"}
	if err := repo.Document().Create(ctx, nil, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	user := auth.Identity{UserID: 2, Role: models.RoleUser}
	fix, err := svc.ProposeFix(ctx, user, doc.ID, &ProposeFixRequest{
		ProposedChange: "Page 4 lists the wrong district",
	})
	if err != nil {
		t.Fatalf("ProposeFix() error = %v", err)
	}

	if fix.OwnerID != user.UserID {
		t.Errorf("Fix.OwnerID = %d, want %d", fix.OwnerID, user.UserID)
	}
	if fix.Status != models.ContributionPending {
		t.Errorf("Fix.Status = %q, want %q", fix.Status, models.ContributionPending)
	}
	// Snapshot fields default from the referenced document.
	if fix.DocName != doc.Name || fix.DocPicture != doc.Picture {
		t.Errorf("Fix snapshot = (%q, %q), want (%q, %q)", fix.DocName, fix.DocPicture, doc.Name, doc.Picture)
	}
}

func TestProposeFixAdminForbidden(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	doc := &models.Document{Name: "City Census 1890"}
	if err := repo.Document().Create(ctx, nil, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}
	_, err := svc.ProposeFix(ctx, admin, doc.ID, &ProposeFixRequest{ProposedChange: "typo"})

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError for admin caller, got %v", err)
	}
	if permErr.Action != "propose" {
		t.Errorf("PermissionError.Action = %q, want %q", permErr.Action, "propose")
	}
	if len(repo.fixes) != 0 {
		t.Error("Rejected proposal must not be persisted")
	}
}

func TestProposeFixUnknownDocument(t *testing.T) {
	_, _, svc := newContributionFixture()

	user := auth.Identity{UserID: 2, Role: models.RoleUser}
	_, err := svc.ProposeFix(context.Background(), user, 99, &ProposeFixRequest{ProposedChange: "typo"})
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestUpdateProposedDocumentOwnership(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	owner := auth.Identity{UserID: 5, Role: models.RoleUser}
	proposal := &models.ProposedDocument{OwnerID: owner.UserID, Name: "Draft", Status: models.ContributionPending}
	if err := repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	newName := "Draft v2"

	// A different non-admin user is rejected.
	stranger := auth.Identity{UserID: 6, Role: models.RoleUser}
	_, err := svc.UpdateProposedDocument(ctx, stranger, proposal.ID, &UpdateProposedDocumentRequest{Name: &newName})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError for non-owner, got %v", err)
	}

	// The owner succeeds and the record drops out of pending.
	updated, err := svc.UpdateProposedDocument(ctx, owner, proposal.ID, &UpdateProposedDocumentRequest{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateProposedDocument() owner error = %v", err)
	}
	if updated.Name != newName {
		t.Errorf("Name = %q, want %q", updated.Name, newName)
	}
	if updated.Status != models.ContributionEdited {
		t.Errorf("Status = %q, want %q", updated.Status, models.ContributionEdited)
	}

	// An admin may edit any record.
	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}
	adminName := "Draft v3"
	if _, err := svc.UpdateProposedDocument(ctx, admin, proposal.ID, &UpdateProposedDocumentRequest{Name: &adminName}); err != nil {
		t.Errorf("UpdateProposedDocument() admin error = %v", err)
	}
}

func TestUpdateProposedDocumentNotFound(t *testing.T) {
	_, _, svc := newContributionFixture()

	name := "x"
	_, err := svc.UpdateProposedDocument(context.Background(), auth.Identity{UserID: 5, Role: models.RoleUser}, 42, &UpdateProposedDocumentRequest{Name: &name})
	if !errors.Is(err, ErrProposalNotFound) {
		t.Errorf("Expected ErrProposalNotFound, got %v", err)
	}
}

func TestUpdateFixOwnership(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	owner := auth.Identity{UserID: 8, Role: models.RoleUser}
	fix := &models.Fix{OwnerID: owner.UserID, DocumentID: 1, ProposedChange: "old", Status: models.ContributionPending}
	if err := repo.Fix().Create(ctx, nil, fix); err != nil {
		t.Fatalf("seed fix: %v", err)
	}

	change := "new wording"

	stranger := auth.Identity{UserID: 9, Role: models.RoleUser}
	if _, err := svc.UpdateFix(ctx, stranger, fix.ID, &UpdateFixRequest{ProposedChange: &change}); err == nil {
		t.Error("Expected error for non-owner update")
	}

	updated, err := svc.UpdateFix(ctx, owner, fix.ID, &UpdateFixRequest{ProposedChange: &change})
	if err != nil {
		t.Fatalf("UpdateFix() owner error = %v", err)
	}
	if updated.ProposedChange != change {
		t.Errorf("ProposedChange = %q, want %q", updated.ProposedChange, change)
	}
	if updated.Status != models.ContributionEdited {
		t.Errorf("Status = %q, want %q", updated.Status, models.ContributionEdited)
	}
}

func TestDeleteProposedDocument(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	owner := auth.Identity{UserID: 5, Role: models.RoleUser}
	proposal := &models.ProposedDocument{OwnerID: owner.UserID, Name: "Draft", Status: models.ContributionPending}
	if err := repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	stranger := auth.Identity{UserID: 6, Role: models.RoleUser}
	if _, err := svc.DeleteProposedDocument(ctx, stranger, proposal.ID); err == nil {
		t.Error("Expected error for non-owner delete")
	}
	if _, err := repo.ProposedDocument().GetByID(ctx, nil, proposal.ID); err != nil {
		t.Fatal("Record must survive a rejected delete")
	}

	deleted, err := svc.DeleteProposedDocument(ctx, owner, proposal.ID)
	if err != nil {
		t.Fatalf("DeleteProposedDocument() error = %v", err)
	}
	if deleted.Name != proposal.Name {
		t.Errorf("Deleted record name = %q, want %q", deleted.Name, proposal.Name)
	}
	if _, err := repo.ProposedDocument().GetByID(ctx, nil, proposal.ID); err == nil {
		t.Error("Record must be gone after delete")
	}

	if _, err := svc.DeleteProposedDocument(ctx, owner, proposal.ID); !errors.Is(err, ErrProposalNotFound) {
		t.Errorf("Expected ErrProposalNotFound on second delete, got %v", err)
	}
}

func TestDeleteFixAsAdmin(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	fix := &models.Fix{OwnerID: 8, DocumentID: 1, ProposedChange: "x", Status: models.ContributionPending}
	if err := repo.Fix().Create(ctx, nil, fix); err != nil {
		t.Fatalf("seed fix: %v", err)
	}

	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}
	if _, err := svc.DeleteFix(ctx, admin, fix.ID); err != nil {
		t.Fatalf("DeleteFix() admin error = %v", err)
	}
	if _, err := repo.Fix().GetByID(ctx, nil, fix.ID); err == nil {
		t.Error("Record must be gone after admin delete")
	}
}

func TestListMyContributionsScopedToOwner(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	for _, ownerID := range []uint{5, 5, 6} {
		proposal := &models.ProposedDocument{OwnerID: ownerID, Name: "p", Status: models.ContributionPending}
		if err := repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
			t.Fatalf("seed proposal: %v", err)
		}
		fix := &models.Fix{OwnerID: ownerID, DocumentID: 1, ProposedChange: "c", Status: models.ContributionPending}
		if err := repo.Fix().Create(ctx, nil, fix); err != nil {
			t.Fatalf("seed fix: %v", err)
		}
	}

	caller := auth.Identity{UserID: 5, Role: models.RoleUser}
	docs, err := svc.ListMyProposedDocuments(ctx, caller)
	if err != nil {
		t.Fatalf("ListMyProposedDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 proposed documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.OwnerID != caller.UserID {
			t.Errorf("Leaked proposal owned by %d", doc.OwnerID)
		}
	}

	fixes, err := svc.ListMyFixes(ctx, caller)
	if err != nil {
		t.Fatalf("ListMyFixes() error = %v", err)
	}
	if len(fixes) != 2 {
		t.Errorf("Expected 2 fixes, got %d", len(fixes))
	}
}

func TestListAllRequiresAdmin(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	proposal := &models.ProposedDocument{OwnerID: 5, Name: "Queue Item", Picture: "q.png", Status: models.ContributionPending}
	if err := repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	user := auth.Identity{UserID: 5, Role: models.RoleUser}
	if _, err := svc.ListAllProposedDocuments(ctx, user); err == nil {
		t.Error("Expected error for non-admin queue listing")
	}
	if _, err := svc.ListAllFixes(ctx, user); err == nil {
		t.Error("Expected error for non-admin fix listing")
	}

	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}
	summaries, err := svc.ListAllProposedDocuments(ctx, admin)
	if err != nil {
		t.Fatalf("ListAllProposedDocuments() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].ID != proposal.ID || summaries[0].Name != "Queue Item" || summaries[0].Picture != "q.png" {
		t.Errorf("Summary = %+v, want id/name/picture of the seeded proposal", summaries[0])
	}
}

func TestGetProposedDocumentVisibility(t *testing.T) {
	repo, _, svc := newContributionFixture()
	ctx := context.Background()

	proposal := &models.ProposedDocument{OwnerID: 5, Name: "Draft", Status: models.ContributionPending}
	if err := repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	tests := []struct {
		name    string
		caller  auth.Identity
		wantErr bool
	}{
		{"owner", auth.Identity{UserID: 5, Role: models.RoleUser}, false},
		{"admin", auth.Identity{UserID: 1, Role: models.RoleAdmin}, false},
		{"stranger", auth.Identity{UserID: 6, Role: models.RoleUser}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetProposedDocument(ctx, tt.caller, proposal.ID)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetProposedDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
