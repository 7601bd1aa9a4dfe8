package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"meshpreview/internal/services/meshthumb"
)

// Source yields the bytes of an attachment on demand.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Attachment is one candidate model file from an inbound event.
type Attachment struct {
	Filename    string
	ContentType string
	Source      Source
}

// Eligible reports whether the attachment's filename names a renderable
// model format. The suffix check is case-insensitive.
func (a Attachment) Eligible() bool {
	return meshthumb.Supported(a.Filename)
}

// Extension returns the lowercase extension without the dot.
func (a Attachment) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(a.Filename)), ".")
}

// DisplayName returns the delivery name for the attachment's animation:
// the original base name with the model extension replaced by .gif.
func (a Attachment) DisplayName() string {
	base := filepath.Base(a.Filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".gif"
}

// FileSource reads an attachment from the local filesystem.
type FileSource string

// Open opens the underlying file.
func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	return file, nil
}
