package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/models"
)

func TestExportModerationQueue(t *testing.T) {
	repo := newMemRepository()
	svc := NewExportService(repo, testLogger())
	ctx := context.Background()

	proposal := &models.ProposedDocument{OwnerID: 5, Name: "Harbor Records", Type: "archive", Status: models.ContributionPending}
	if err := repo.ProposedDocument().Create(ctx, nil, proposal); err != nil {
		t.Fatalf("seed proposal: %v", err)
	}
	fix := &models.Fix{OwnerID: 6, DocumentID: 3, DocName: "City Census", ProposedChange: "wrong district", Status: models.ContributionEdited}
	if err := repo.Fix().Create(ctx, nil, fix); err != nil {
		t.Fatalf("seed fix: %v", err)
	}

	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}
	data, err := svc.ExportModerationQueue(ctx, admin)
	if err != nil {
		t.Fatalf("ExportModerationQueue() error = %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Export is not a readable workbook: %v", err)
	}
	defer workbook.Close()

	docRows, err := workbook.GetRows("Proposed Documents")
	if err != nil {
		t.Fatalf("Missing document sheet: %v", err)
	}
	if len(docRows) != 2 {
		t.Fatalf("Expected header plus 1 document row, got %d rows", len(docRows))
	}
	if docRows[1][2] != "Harbor Records" {
		t.Errorf("Document row name = %q, want %q", docRows[1][2], "Harbor Records")
	}

	fixRows, err := workbook.GetRows("Proposed Fixes")
	if err != nil {
		t.Fatalf("Missing fix sheet: %v", err)
	}
	if len(fixRows) != 2 {
		t.Fatalf("Expected header plus 1 fix row, got %d rows", len(fixRows))
	}
	if fixRows[1][4] != "wrong district" {
		t.Errorf("Fix row change = %q, want %q", fixRows[1][4], "wrong district")
	}
}

func TestExportModerationQueueRequiresAdmin(t *testing.T) {
	repo := newMemRepository()
	svc := NewExportService(repo, testLogger())

	user := auth.Identity{UserID: 5, Role: models.RoleUser}
	_, err := svc.ExportModerationQueue(context.Background(), user)

	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError, got %v", err)
	}
}
