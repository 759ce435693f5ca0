package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/crowddocs/contribution-service/internal/auth"
	"github.com/crowddocs/contribution-service/internal/models"
	"github.com/crowddocs/contribution-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportModerationQueue writes both moderation queues into an xlsx workbook,
// one sheet per contribution kind. Admin only.
func (s *exportService) ExportModerationQueue(ctx context.Context, caller auth.Identity) ([]byte, error) {
	if err := auth.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, NewPermissionError(caller.UserID, 0, "moderation_queue", "export", "admin only")
	}

	docs, err := s.repo.ProposedDocument().ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list proposed documents: %w", err)
	}
	fixes, err := s.repo.Fix().ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list fixes: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	const docSheet = "Proposed Documents"
	if err := f.SetSheetName("Sheet1", docSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	docHeaders := []string{"ID", "Owner ID", "Name", "Type", "Duration", "Status", "Created At"}
	for i, header := range docHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(docSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for row, doc := range docs {
		values := []interface{}{doc.ID, doc.OwnerID, doc.Name, doc.Type, doc.Duration, string(doc.Status), doc.CreatedAt.Format("2006-01-02 15:04:05")}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(docSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	const fixSheet = "Proposed Fixes"
	if _, err := f.NewSheet(fixSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	fixHeaders := []string{"ID", "Owner ID", "Document ID", "Doc Name", "Proposed Change", "Status", "Created At"}
	for i, header := range fixHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(fixSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for row, fix := range fixes {
		values := []interface{}{fix.ID, fix.OwnerID, fix.DocumentID, fix.DocName, fix.ProposedChange, string(fix.Status), fix.CreatedAt.Format("2006-01-02 15:04:05")}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(fixSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("Moderation queue exported",
		"admin_id", caller.UserID,
		"proposed_documents", len(docs),
		"fixes", len(fixes))
	return buf.Bytes(), nil
}
