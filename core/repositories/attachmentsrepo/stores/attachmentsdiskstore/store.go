// Package attachmentsdiskstore keeps attachment blobs on the local
// filesystem under a root directory.
package attachmentsdiskstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo"
)

// Store implements attachmentsrepo.Storer on disk.
type Store struct {
	root string
}

// NewStore creates root if needed.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: abs}, nil
}

func (s *Store) Kind() string {
	return attachmentsrepo.KindLocal
}

// Put writes body to a temp file and renames it into place so readers never
// see a partial blob.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error) {
	dst, err := s.path(key)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: body})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("write: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("rename: %w", err)
	}

	return n, nil
}

func (s *Store) Retrieve(ctx context.Context, key string) (attachmentsrepo.Retrieval, error) {
	p, err := s.path(key)
	if err != nil {
		return attachmentsrepo.Retrieval{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return attachmentsrepo.Retrieval{}, attachmentsrepo.ErrNotFound
		}
		return attachmentsrepo.Retrieval{}, fmt.Errorf("open: %w", err)
	}

	return attachmentsrepo.Retrieval{Body: f}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}

	// Leaves the task directory behind only while it still holds files.
	os.Remove(filepath.Dir(p))
	return nil
}

// path maps a slash separated key to a file under root, refusing anything
// that would escape it.
func (s *Store) path(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", fmt.Errorf("%w: %q", attachmentsrepo.ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean != key || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", attachmentsrepo.ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
