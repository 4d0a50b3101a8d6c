package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
)

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// FileRepository implements InvoiceRepository on the local filesystem: three
// parallel directories keyed by matching filename stems, plus a staging
// directory for uploads in flight. The directory layout is the database.
type FileRepository struct {
	baseDir      string
	documentsDir string
	previewsDir  string
	recordsDir   string
	uploadsDir   string
	mutex        sync.RWMutex
}

// NewFileRepository creates a new filesystem-backed invoice repository rooted
// at baseDir, creating the directory layout if needed.
func NewFileRepository(baseDir string) (*FileRepository, error) {
	repo := &FileRepository{
		baseDir:      baseDir,
		documentsDir: filepath.Join(baseDir, "processed"),
		previewsDir:  filepath.Join(baseDir, "previews"),
		recordsDir:   filepath.Join(baseDir, "records"),
		uploadsDir:   filepath.Join(baseDir, "uploads"),
	}

	for _, dir := range []string{repo.documentsDir, repo.previewsDir, repo.recordsDir, repo.uploadsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &RepositoryError{
				Op:  "create_repository",
				Err: fmt.Errorf("failed to create %s directory: %w", filepath.Base(dir), err),
			}
		}
	}

	return repo, nil
}

// UploadDir returns the staging directory for incoming files.
func (r *FileRepository) UploadDir() string {
	return r.uploadsDir
}

// DocumentPath returns the on-disk path of a stored document.
func (r *FileRepository) DocumentPath(filename string) string {
	return filepath.Join(r.documentsDir, filepath.Base(filename))
}

// PreviewPath returns the on-disk path of a preview image.
func (r *FileRepository) PreviewPath(filename string) string {
	return filepath.Join(r.previewsDir, filepath.Base(filename))
}

// CommitDocument moves a staged upload into processed storage under stem+ext.
func (r *FileRepository) CommitDocument(ctx context.Context, tempPath, stem, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RepositoryError{Op: "commit_document", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	filename := stem + ext
	if err := os.Rename(tempPath, filepath.Join(r.documentsDir, filename)); err != nil {
		return "", &RepositoryError{
			Op:  "commit_document",
			Err: fmt.Errorf("failed to move document into processed storage: %w", err),
		}
	}

	return filename, nil
}

// WritePreview stores the preview JPEG for the given stem.
func (r *FileRepository) WritePreview(ctx context.Context, stem string, jpegData []byte) error {
	if err := ctx.Err(); err != nil {
		return &RepositoryError{Op: "write_preview", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	path := filepath.Join(r.previewsDir, stem+".jpg")
	if err := os.WriteFile(path, jpegData, 0644); err != nil {
		return &RepositoryError{
			Op:  "write_preview",
			Err: fmt.Errorf("failed to write preview file: %w", err),
		}
	}

	return nil
}

// PutRecord stores the JSON sidecar for the given stem.
func (r *FileRepository) PutRecord(ctx context.Context, stem string, record *domain.InvoiceRecord) error {
	if err := ctx.Err(); err != nil {
		return &RepositoryError{Op: "put_record", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &RepositoryError{
			Op:  "put_record",
			Err: fmt.Errorf("failed to serialize record: %w", err),
		}
	}

	path := filepath.Join(r.recordsDir, stem+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &RepositoryError{
			Op:  "put_record",
			Err: fmt.Errorf("failed to write record file: %w", err),
		}
	}

	return nil
}

// GetRecord retrieves the JSON sidecar for the given stem.
func (r *FileRepository) GetRecord(ctx context.Context, stem string) (*domain.InvoiceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RepositoryError{Op: "get_record", Err: err}
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	path := filepath.Join(r.recordsDir, stem+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RepositoryError{
			Op:  "get_record",
			Err: fmt.Errorf("failed to read record file: %w", err),
		}
	}

	var record domain.InvoiceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &RepositoryError{
			Op:  "get_record",
			Err: fmt.Errorf("failed to deserialize record: %w", err),
		}
	}

	return &record, nil
}

// List enumerates processed documents ordered by modification time, newest first.
func (r *FileRepository) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RepositoryError{Op: "list_documents", Err: err}
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	files, err := os.ReadDir(r.documentsDir)
	if err != nil {
		return nil, &RepositoryError{
			Op:  "list_documents",
			Err: fmt.Errorf("failed to read processed directory: %w", err),
		}
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue // entry vanished between ReadDir and Stat
		}

		name := file.Name()
		entries = append(entries, Entry{
			Filename: name,
			Stem:     strings.TrimSuffix(name, filepath.Ext(name)),
			ModTime:  info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	return entries, nil
}

// Rename moves the whole artifact triple from oldStem to newStem. The three
// renames are applied in order and rolled back on the first failure, so the
// triple is never left split across two stems.
func (r *FileRepository) Rename(ctx context.Context, oldStem, newStem, ext string) error {
	if err := ctx.Err(); err != nil {
		return &RepositoryError{Op: "rename_invoice", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	type stage struct {
		from string
		to   string
	}

	stages := []stage{
		{filepath.Join(r.documentsDir, oldStem+ext), filepath.Join(r.documentsDir, newStem+ext)},
		{filepath.Join(r.previewsDir, oldStem+".jpg"), filepath.Join(r.previewsDir, newStem+".jpg")},
		{filepath.Join(r.recordsDir, oldStem+".json"), filepath.Join(r.recordsDir, newStem+".json")},
	}

	for i, s := range stages {
		if err := os.Rename(s.from, s.to); err != nil {
			// Roll back the members renamed so far, in reverse order.
			for j := i - 1; j >= 0; j-- {
				if rollbackErr := os.Rename(stages[j].to, stages[j].from); rollbackErr != nil {
					return &RepositoryError{
						Op:  "rename_invoice",
						Err: fmt.Errorf("rename of %s failed (%v) and rollback of %s also failed: %w", s.from, err, stages[j].to, rollbackErr),
					}
				}
			}
			return &RepositoryError{
				Op:  "rename_invoice",
				Err: fmt.Errorf("failed to rename %s: %w", s.from, err),
			}
		}
	}

	return nil
}

// Delete removes the artifact triple for the given document filename. All
// three members are attempted; any missing or unremovable member makes the
// whole operation fail.
func (r *FileRepository) Delete(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return &RepositoryError{Op: "delete_invoice", Err: err}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	targets := []string{
		filepath.Join(r.documentsDir, base),
		filepath.Join(r.previewsDir, stem+".jpg"),
		filepath.Join(r.recordsDir, stem+".json"),
	}

	var failures []string
	for _, target := range targets {
		if err := os.Remove(target); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(target), err))
		}
	}

	if len(failures) > 0 {
		return &RepositoryError{
			Op:  "delete_invoice",
			Err: fmt.Errorf("failed to remove: %s", strings.Join(failures, "; ")),
		}
	}

	return nil
}
