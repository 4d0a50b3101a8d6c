// Package raster converts uploaded documents into JPEG pixel data. PDFs go
// through poppler's pdftoppm; plain images pass through untouched.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrPopplerNotFound is returned when the pdftoppm binary cannot be located.
// Handlers surface this as its own user-facing condition because the fix
// (install poppler, or set POPPLER_PATH) is on the operator, not the file.
var ErrPopplerNotFound = errors.New("poppler pdftoppm tool not found")

// RasterError represents an error that occurred while rasterizing a document
type RasterError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *RasterError) Error() string {
	if e.Err == nil {
		return "raster error: " + e.Op
	}
	return "raster error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *RasterError) Unwrap() error {
	return e.Err
}

// Rasterizer renders document pages to JPEG images.
type Rasterizer struct {
	// PopplerPath optionally points at the directory holding the poppler
	// binaries. Empty means pdftoppm is resolved from PATH.
	PopplerPath string
}

// NewRasterizer creates a rasterizer with an optional poppler directory override.
func NewRasterizer(popplerPath string) *Rasterizer {
	return &Rasterizer{PopplerPath: popplerPath}
}

// IsPDF reports whether the path names a PDF by extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// FirstPageJPEG returns JPEG bytes for the given document. For PDFs the first
// page is rendered at the requested dpi via pdftoppm; for anything else the
// raw file bytes are returned as-is (the upload is already an image).
func (r *Rasterizer) FirstPageJPEG(ctx context.Context, path string, dpi int) ([]byte, error) {
	if !IsPDF(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &RasterError{Op: "read_image", Err: err}
		}
		return data, nil
	}

	tool := "pdftoppm"
	if r.PopplerPath != "" {
		tool = filepath.Join(r.PopplerPath, "pdftoppm")
	}

	// Without an output prefix pdftoppm writes the rendered page to stdout.
	cmd := exec.CommandContext(ctx, tool,
		"-jpeg", "-f", "1", "-l", "1", "-r", strconv.Itoa(dpi), path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, &RasterError{Op: "locate_pdftoppm", Err: ErrPopplerNotFound}
		}
		return nil, &RasterError{
			Op:  "render_pdf_page",
			Err: fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(stderr.String())),
		}
	}

	if stdout.Len() == 0 {
		return nil, &RasterError{Op: "render_pdf_page", Err: fmt.Errorf("pdftoppm produced no output")}
	}

	return stdout.Bytes(), nil
}
