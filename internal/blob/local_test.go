package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalSaveOpenRoundTrip(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}

	ctx := context.Background()
	payload := "fake jpeg bytes"
	if err := local.Save(ctx, "a.jpg", "image/jpeg", strings.NewReader(payload), int64(len(payload))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rc, err := local.Open(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != payload {
		t.Errorf("round trip mismatch: got %q", data)
	}
}

func TestLocalOpenMissingReturnsErrNotExist(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	if _, err := local.Open(context.Background(), "missing.jpg"); !errors.Is(err, ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLocalExistsAndRemove(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	ctx := context.Background()
	if err := local.Save(ctx, "b.png", "image/png", strings.NewReader("png"), 3); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	exists, err := local.Exists(ctx, "b.png")
	if err != nil || !exists {
		t.Fatalf("expected attachment to exist, got %v %v", exists, err)
	}

	if err := local.Remove(ctx, "b.png"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	exists, err = local.Exists(ctx, "b.png")
	if err != nil || exists {
		t.Fatalf("expected attachment to be gone, got %v %v", exists, err)
	}

	// Removing twice is not an error.
	if err := local.Remove(ctx, "b.png"); err != nil {
		t.Errorf("second Remove failed: %v", err)
	}
}

func TestLocalSaveLeavesNoStagingFiles(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	if err := local.Save(context.Background(), "c.jpg", "image/jpeg", strings.NewReader("x"), 1); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".staging-") {
			t.Errorf("staging file left behind: %s", entry.Name())
		}
	}
}

func TestLocalRejectsPathTraversal(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	name := filepath.Join("..", "escape.jpg")
	if err := local.Save(context.Background(), name, "image/jpeg", strings.NewReader("x"), 1); err == nil {
		t.Error("expected traversal name to be rejected")
	}
}

func TestNewNameKeepsExtension(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	name := NewName("photo.JPG", now)
	if !strings.HasPrefix(name, "1700000000000_") {
		t.Errorf("expected timestamp prefix, got %s", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("expected lowercased extension, got %s", name)
	}
	if name == NewName("photo.JPG", now) {
		t.Error("two names generated at the same instant must differ")
	}
}
