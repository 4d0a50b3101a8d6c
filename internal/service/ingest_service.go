package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
	"github.com/PNHMEDIA/faktury-app-v2/internal/filename"
	"github.com/PNHMEDIA/faktury-app-v2/internal/imageutil"
	"github.com/PNHMEDIA/faktury-app-v2/internal/model"
	"github.com/PNHMEDIA/faktury-app-v2/internal/raster"
	"github.com/PNHMEDIA/faktury-app-v2/internal/repository"
)

// Rendering resolutions: extraction wants detail, previews want small files.
const (
	extractDPI = 300
	previewDPI = 200
)

// Extractor returns structured invoice fields for a JPEG image.
type Extractor interface {
	ExtractInvoiceFields(ctx context.Context, imageJPEG []byte) (*domain.InvoiceRecord, error)
}

// PageRasterizer renders the first page of a stored document to JPEG bytes.
type PageRasterizer interface {
	FirstPageJPEG(ctx context.Context, path string, dpi int) ([]byte, error)
}

// Upload is one incoming file to ingest.
type Upload struct {
	// Filename is the user-supplied name; only its extension survives into
	// processed storage.
	Filename string
	// Content is the raw file body.
	Content io.Reader
}

// ingestFailure carries a per-file error code alongside the cause.
type ingestFailure struct {
	code string
	err  error
}

func (e *ingestFailure) Error() string { return e.err.Error() }
func (e *ingestFailure) Unwrap() error { return e.err }

// IngestService runs the upload workflow: stage the file, rasterize it, send
// it for extraction, encode the new name, write the preview and commit the
// artifact triple.
type IngestService struct {
	extractor  Extractor
	rasterizer PageRasterizer
	repository repository.InvoiceRepository
}

// NewIngestService creates a new ingestion service.
func NewIngestService(extractor Extractor, rasterizer PageRasterizer, repo repository.InvoiceRepository) *IngestService {
	return &IngestService{
		extractor:  extractor,
		rasterizer: rasterizer,
		repository: repo,
	}
}

// ProcessUploads ingests a batch of uploaded files sequentially. Each file
// succeeds or fails on its own; one failure never aborts the rest of the
// batch.
func (s *IngestService) ProcessUploads(ctx context.Context, uploads []Upload) []model.UploadFileResult {
	results := make([]model.UploadFileResult, 0, len(uploads))

	for _, upload := range uploads {
		result := model.UploadFileResult{OriginalName: upload.Filename}

		storedName, err := s.processUpload(ctx, upload)
		if err != nil {
			log.Printf("Ingestion failed for %q: %v", upload.Filename, err)
			result.Error = err.Error()
			result.ErrorCode = model.ErrCodeStorageFailed
			var failure *ingestFailure
			if errors.As(err, &failure) {
				result.ErrorCode = failure.code
			}
		} else {
			result.Success = true
			result.Filename = storedName
		}

		results = append(results, result)
	}

	return results
}

// processUpload handles one file end to end. The staged temp file is removed
// on any failure so nothing half-processed is left behind.
func (s *IngestService) processUpload(ctx context.Context, upload Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(upload.Filename)))

	tempPath := filepath.Join(s.repository.UploadDir(), uuid.NewString()+ext)
	if err := stageFile(tempPath, upload.Content); err != nil {
		return "", &ingestFailure{
			code: model.ErrCodeStorageFailed,
			err:  fmt.Errorf("failed to stage upload: %w", err),
		}
	}

	committed := false
	defer func() {
		if !committed {
			os.Remove(tempPath)
		}
	}()

	imageJPEG, err := s.rasterizer.FirstPageJPEG(ctx, tempPath, extractDPI)
	if err != nil {
		if errors.Is(err, raster.ErrPopplerNotFound) {
			return "", &ingestFailure{
				code: model.ErrCodeToolNotFound,
				err:  fmt.Errorf("PDF tool not found: install poppler or set POPPLER_PATH: %w", err),
			}
		}
		return "", &ingestFailure{
			code: model.ErrCodeRasterFailed,
			err:  fmt.Errorf("failed to convert file to an image: %w", err),
		}
	}

	record, err := s.extractor.ExtractInvoiceFields(ctx, imageJPEG)
	if err != nil {
		return "", &ingestFailure{
			code: model.ErrCodeExtractionFailed,
			err:  fmt.Errorf("extraction failed: %w", err),
		}
	}

	stem := filename.Encode(filename.Fields{
		IssueDate:   record.IssueDate.String(),
		Supplier:    strings.TrimSpace(record.SupplierName),
		Description: strings.TrimSpace(record.Description),
	})
	record.EncodedName = stem

	storedName, err := s.repository.CommitDocument(ctx, tempPath, stem, ext)
	if err != nil {
		return "", &ingestFailure{
			code: model.ErrCodeStorageFailed,
			err:  fmt.Errorf("failed to commit document: %w", err),
		}
	}
	committed = true

	// The preview renders from the committed document, so a failed commit
	// never strands one. Preview failures are logged, never fatal; the
	// dashboard degrades to a missing image.
	if err := s.writePreview(ctx, s.repository.DocumentPath(storedName), stem); err != nil {
		log.Printf("Failed to create preview for %q: %v", upload.Filename, err)
	}

	if err := s.repository.PutRecord(ctx, stem, record); err != nil {
		return "", &ingestFailure{
			code: model.ErrCodeStorageFailed,
			err:  fmt.Errorf("document stored but sidecar write failed: %w", err),
		}
	}

	return storedName, nil
}

func (s *IngestService) writePreview(ctx context.Context, path, stem string) error {
	pageJPEG, err := s.rasterizer.FirstPageJPEG(ctx, path, previewDPI)
	if err != nil {
		return err
	}

	previewJPEG, err := imageutil.PreviewJPEG(pageJPEG, nil)
	if err != nil {
		return err
	}

	return s.repository.WritePreview(ctx, stem, previewJPEG)
}

func stageFile(path string, content io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}
