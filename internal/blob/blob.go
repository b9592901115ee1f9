// Package blob stores issue image attachments. A MinIO bucket is used when
// configured, otherwise attachments live in a directory on local disk.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotExist is returned when a named attachment is not in storage.
var ErrNotExist = errors.New("attachment does not exist")

// Store is the attachment storage capability used by the submission and
// artifact pipelines.
type Store interface {
	// Save writes the attachment under name. The write is atomic from the
	// reader's perspective: a partially written object is never visible.
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	// Open streams a stored attachment, or ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Remove deletes an attachment. Used for best-effort rollback when the
	// metadata insert fails after the attachment write.
	Remove(ctx context.Context, name string) error
}

// NewName generates a collision-resistant object name for an uploaded file:
// millisecond timestamp plus a random suffix, keeping the original extension.
func NewName(originalFilename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), uuid.NewString(), ext)
}

// validName rejects anything that could escape the storage namespace.
func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid attachment name %q", name)
	}
	return nil
}
