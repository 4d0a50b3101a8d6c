package repository

import (
	"context"
	"time"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
)

// Entry describes one processed invoice as found on disk, newest first when
// returned from List.
type Entry struct {
	// Filename is the stored document filename including its extension.
	Filename string
	// Stem is Filename without the extension; the key shared by the
	// document, its preview and its sidecar.
	Stem string
	// ModTime is the document's last modification time.
	ModTime time.Time
}

// InvoiceRepository defines the storage operations over the processed invoice
// artifact triple (document, preview, JSON sidecar). Implementations keep the
// three artifacts keyed by a shared filename stem.
type InvoiceRepository interface {
	// UploadDir returns the directory incoming files are staged in before
	// they are committed.
	UploadDir() string

	// CommitDocument moves a staged upload into processed storage under
	// stem+ext and returns the final document filename.
	CommitDocument(ctx context.Context, tempPath, stem, ext string) (string, error)

	// WritePreview stores the preview JPEG for the given stem.
	WritePreview(ctx context.Context, stem string, jpegData []byte) error

	// PutRecord stores the JSON sidecar for the given stem.
	PutRecord(ctx context.Context, stem string, record *domain.InvoiceRecord) error

	// GetRecord retrieves the JSON sidecar for the given stem.
	GetRecord(ctx context.Context, stem string) (*domain.InvoiceRecord, error)

	// List enumerates processed documents ordered by modification time,
	// most recent first.
	List(ctx context.Context) ([]Entry, error)

	// Rename moves the whole artifact triple from oldStem to newStem.
	// Renames are staged in order and rolled back on failure so a partial
	// rename does not leave the triple split across two stems.
	Rename(ctx context.Context, oldStem, newStem, ext string) error

	// Delete removes the artifact triple for the given document filename.
	// A missing member makes the whole operation report failure, even when
	// the remaining members were removed.
	Delete(ctx context.Context, filename string) error

	// DocumentPath returns the on-disk path of a stored document.
	DocumentPath(filename string) string

	// PreviewPath returns the on-disk path of a preview image.
	PreviewPath(filename string) string
}
