package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
)

func newTestRepo(t *testing.T) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)
	return repo
}

// seedInvoice creates a full artifact triple for the given stem.
func seedInvoice(t *testing.T, repo *FileRepository, stem, ext string) {
	t.Helper()
	ctx := context.Background()

	tempPath := filepath.Join(repo.UploadDir(), "upload-"+stem+ext)
	require.NoError(t, os.WriteFile(tempPath, []byte("document body"), 0644))

	_, err := repo.CommitDocument(ctx, tempPath, stem, ext)
	require.NoError(t, err)
	require.NoError(t, repo.WritePreview(ctx, stem, []byte("jpeg bytes")))
	require.NoError(t, repo.PutRecord(ctx, stem, &domain.InvoiceRecord{
		SupplierName: "ACME s.r.o.",
		IssueDate:    domain.ParseDateOnly("2024-03-07"),
		Description:  "Hosting",
		EncodedName:  stem,
	}))
}

func TestFileRepository_CommitAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stem := "240307 (ACME s.r.o.), (Hosting), E F ZAP"
	seedInvoice(t, repo, stem, ".pdf")

	// Upload staging must be empty after commit.
	staged, err := os.ReadDir(repo.UploadDir())
	require.NoError(t, err)
	assert.Empty(t, staged)

	record, err := repo.GetRecord(ctx, stem)
	require.NoError(t, err)
	assert.Equal(t, "ACME s.r.o.", record.SupplierName)
	assert.Equal(t, "2024-03-07", record.IssueDate.String())

	assert.FileExists(t, repo.DocumentPath(stem+".pdf"))
	assert.FileExists(t, repo.PreviewPath(stem+".jpg"))
}

func TestFileRepository_GetRecordMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRecord(context.Background(), "no such stem")
	require.Error(t, err)

	var repoErr *RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "get_record", repoErr.Op)
}

func TestFileRepository_ListOrdersByModTimeDesc(t *testing.T) {
	repo := newTestRepo(t)

	seedInvoice(t, repo, "oldest", ".pdf")
	seedInvoice(t, repo, "middle", ".png")
	seedInvoice(t, repo, "newest", ".pdf")

	now := time.Now()
	require.NoError(t, os.Chtimes(repo.DocumentPath("oldest.pdf"), now, now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(repo.DocumentPath("middle.png"), now, now.Add(-1*time.Hour)))
	require.NoError(t, os.Chtimes(repo.DocumentPath("newest.pdf"), now, now))

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "newest.pdf", entries[0].Filename)
	assert.Equal(t, "middle.png", entries[1].Filename)
	assert.Equal(t, "oldest.pdf", entries[2].Filename)
	assert.Equal(t, "middle", entries[1].Stem)
}

func TestFileRepository_RenameMovesWholeTriple(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	oldStem := "240307 (ACME s.r.o.), (Hosting), E F ZAP"
	newStem := "240401 (ACME s.r.o.), (Hosting za duben), E F ZAP"
	seedInvoice(t, repo, oldStem, ".pdf")

	require.NoError(t, repo.Rename(ctx, oldStem, newStem, ".pdf"))

	assert.FileExists(t, repo.DocumentPath(newStem+".pdf"))
	assert.FileExists(t, repo.PreviewPath(newStem+".jpg"))
	assert.NoFileExists(t, repo.DocumentPath(oldStem+".pdf"))
	assert.NoFileExists(t, repo.PreviewPath(oldStem+".jpg"))

	record, err := repo.GetRecord(ctx, newStem)
	require.NoError(t, err)
	assert.Equal(t, "ACME s.r.o.", record.SupplierName)
}

func TestFileRepository_RenameRollsBackOnFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	oldStem := "old stem"
	seedInvoice(t, repo, oldStem, ".pdf")

	// Knock out the sidecar: the third rename stage fails, and the document
	// and preview renames must be rolled back.
	require.NoError(t, os.Remove(filepath.Join(repo.recordsDir, oldStem+".json")))

	err := repo.Rename(ctx, oldStem, "new stem", ".pdf")
	require.Error(t, err)

	assert.FileExists(t, repo.DocumentPath(oldStem+".pdf"))
	assert.FileExists(t, repo.PreviewPath(oldStem+".jpg"))
	assert.NoFileExists(t, repo.DocumentPath("new stem.pdf"))
	assert.NoFileExists(t, repo.PreviewPath("new stem.jpg"))
}

func TestFileRepository_DeleteRemovesWholeTriple(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stem := "240307 (ACME s.r.o.), (Hosting), E F ZAP"
	seedInvoice(t, repo, stem, ".pdf")

	require.NoError(t, repo.Delete(ctx, stem+".pdf"))

	assert.NoFileExists(t, repo.DocumentPath(stem+".pdf"))
	assert.NoFileExists(t, repo.PreviewPath(stem+".jpg"))
	_, err := repo.GetRecord(ctx, stem)
	assert.Error(t, err)
}

func TestFileRepository_DeleteReportsMissingMember(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stem := "orphaned"
	seedInvoice(t, repo, stem, ".pdf")
	require.NoError(t, os.Remove(filepath.Join(repo.recordsDir, stem+".json")))

	// The whole operation fails on the missing sidecar, but the members
	// that do exist are still removed.
	err := repo.Delete(ctx, stem+".pdf")
	require.Error(t, err)
	assert.NoFileExists(t, repo.DocumentPath(stem+".pdf"))
	assert.NoFileExists(t, repo.PreviewPath(stem+".jpg"))
}

func TestFileRepository_ContextCancellation(t *testing.T) {
	repo := newTestRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	assert.Error(t, err)

	err = repo.Delete(ctx, "whatever.pdf")
	assert.Error(t, err)
}
