package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores attachments in a directory. Writes are two-phase: the bytes
// go to a staging file first and are renamed into place, so readers never
// observe a half-written attachment.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.baseDir, name)
}

func (l *Local) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	if err := validName(name); err != nil {
		return err
	}

	staging, err := os.CreateTemp(l.baseDir, ".staging-*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	stagingPath := staging.Name()

	if _, err := io.Copy(staging, r); err != nil {
		staging.Close()
		_ = os.Remove(stagingPath)
		return fmt.Errorf("write attachment: %w", err)
	}
	if err := staging.Close(); err != nil {
		_ = os.Remove(stagingPath)
		return fmt.Errorf("close staging file: %w", err)
	}

	if err := os.Rename(stagingPath, l.path(name)); err != nil {
		_ = os.Remove(stagingPath)
		return fmt.Errorf("commit attachment: %w", err)
	}
	return nil
}

func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validName(name); err != nil {
		return nil, ErrNotExist
	}
	f, err := os.Open(l.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return f, nil
}

func (l *Local) Exists(ctx context.Context, name string) (bool, error) {
	if err := validName(name); err != nil {
		return false, nil
	}
	_, err := os.Stat(l.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat attachment: %w", err)
	}
	return true, nil
}

func (l *Local) Remove(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	err := os.Remove(l.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
