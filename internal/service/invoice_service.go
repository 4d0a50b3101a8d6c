package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
	"github.com/PNHMEDIA/faktury-app-v2/internal/filename"
	"github.com/PNHMEDIA/faktury-app-v2/internal/model"
	"github.com/PNHMEDIA/faktury-app-v2/internal/repository"
)

// InvoiceServiceError represents an error in the invoice service
type InvoiceServiceError struct {
	Op  string
	Err error
}

func (e *InvoiceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *InvoiceServiceError) Unwrap() error {
	return e.Err
}

// InvoiceService serves the dashboard listing and the edit/delete operations
// over processed invoices.
type InvoiceService struct {
	repository repository.InvoiceRepository
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(repo repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{repository: repo}
}

// List returns all processed invoices ordered by modification time, newest
// first. Each filename stem is decoded back into its fields and merged with
// the sidecar record. A stem that fails to decode, or a missing sidecar,
// degrades that one entry to placeholder values; it never fails the listing.
func (s *InvoiceService) List(ctx context.Context) ([]model.DashboardEntry, error) {
	entries, err := s.repository.List(ctx)
	if err != nil {
		return nil, &InvoiceServiceError{Op: "list_invoices", Err: err}
	}

	dashboard := make([]model.DashboardEntry, 0, len(entries))
	for _, entry := range entries {
		item := model.DashboardEntry{
			Filename:     entry.Filename,
			PreviewImage: entry.Stem + ".jpg",
		}

		fields, err := filename.Decode(entry.Stem)
		if err != nil {
			log.Printf("Failed to decode stored filename %q: %v", entry.Filename, err)
			item.IssueDate = model.PlaceholderValue
			item.Supplier = model.PlaceholderValue
			item.Description = model.PlaceholderValue
		} else {
			item.IssueDate = fields.IssueDate
			item.Supplier = fields.Supplier
			item.Description = fields.Description
		}

		if record, err := s.repository.GetRecord(ctx, entry.Stem); err == nil {
			item.DetailedDescription = record.DetailedDescription
		}

		dashboard = append(dashboard, item)
	}

	return dashboard, nil
}

// Edit re-encodes the invoice name from the new field values and renames the
// whole artifact triple, then rewrites the sidecar to match. Returns the new
// document filename.
func (s *InvoiceService) Edit(ctx context.Context, documentFilename string, req model.EditInvoiceRequest) (string, error) {
	base := filepath.Base(documentFilename)
	ext := filepath.Ext(base)
	oldStem := strings.TrimSuffix(base, ext)

	newStem := filename.Encode(filename.Fields{
		IssueDate:   strings.TrimSpace(req.Date),
		Supplier:    strings.TrimSpace(req.Supplier),
		Description: strings.TrimSpace(req.Description),
	})

	// Carry the sidecar-only fields over before anything moves.
	var detailed string
	if record, err := s.repository.GetRecord(ctx, oldStem); err == nil {
		detailed = record.DetailedDescription
	}

	if newStem != oldStem {
		if err := s.repository.Rename(ctx, oldStem, newStem, ext); err != nil {
			return "", &InvoiceServiceError{Op: "rename_artifacts", Err: err}
		}
	}

	record := &domain.InvoiceRecord{
		SupplierName:        strings.TrimSpace(req.Supplier),
		IssueDate:           domain.ParseDateOnly(strings.TrimSpace(req.Date)),
		Description:         strings.TrimSpace(req.Description),
		DetailedDescription: detailed,
		EncodedName:         newStem,
	}
	if err := s.repository.PutRecord(ctx, newStem, record); err != nil {
		return "", &InvoiceServiceError{Op: "rewrite_record", Err: err}
	}

	return newStem + ext, nil
}

// Delete removes the artifact triple for the given document filename.
func (s *InvoiceService) Delete(ctx context.Context, documentFilename string) error {
	if err := s.repository.Delete(ctx, documentFilename); err != nil {
		return &InvoiceServiceError{Op: "delete_artifacts", Err: err}
	}
	return nil
}

// PreviewPath resolves a preview image filename to its on-disk path.
func (s *InvoiceService) PreviewPath(previewFilename string) string {
	return s.repository.PreviewPath(previewFilename)
}

// DocumentPath resolves a document filename to its on-disk path.
func (s *InvoiceService) DocumentPath(documentFilename string) string {
	return s.repository.DocumentPath(documentFilename)
}
