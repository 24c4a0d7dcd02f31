// Package attachmentsrepo stores task attachments in a pluggable blob backend.
package attachmentsrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jrazmi/taskforge/sdk/logger"
)

var (
	ErrNotFound   = errors.New("attachment not found")
	ErrInvalidKey = errors.New("invalid attachment key")
)

// Backend kinds.
const (
	KindLocal = "local"
	KindGCS   = "gcs"
)

// Storer is a blob backend.
type Storer interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error)
	Retrieve(ctx context.Context, key string) (Retrieval, error)
	Delete(ctx context.Context, key string) error
	Kind() string
}

// Repository namespaces blobs under their task and cleans up after failed
// batches.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// NewRepository creates a new attachment repository.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// Kind reports the configured backend.
func (r *Repository) Kind() string {
	return r.storer.Kind()
}

// Store writes every upload under tasks/<namespace>/. Either all uploads are
// stored or none are: on failure the blobs written so far are removed. Keys
// listed in existing are never reused.
func (r *Repository) Store(ctx context.Context, namespace string, uploads []Upload, existing ...string) ([]StoredFile, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	stored := make([]StoredFile, 0, len(uploads))
	used := make(map[string]bool, len(uploads)+len(existing))
	for _, k := range existing {
		used[k] = true
	}
	ms := r.now().UnixMilli()

	for _, u := range uploads {
		name := SanitizeFilename(u.Filename)
		key := ObjectKey(namespace, name, ms)
		for used[key] {
			ms++
			key = ObjectKey(namespace, name, ms)
		}
		used[key] = true

		n, err := r.storer.Put(ctx, key, u.Body, u.ContentType)
		if err != nil {
			r.Remove(ctx, storedKeys(stored)...)
			return nil, fmt.Errorf("put %s: %w", key, err)
		}

		stored = append(stored, StoredFile{
			Key:         key,
			Filename:    u.Filename,
			ContentType: u.ContentType,
			Size:        n,
		})
	}

	r.log.DebugContext(ctx, "attachments stored", "namespace", namespace, "count", len(stored), "backend", r.storer.Kind())
	return stored, nil
}

// Remove deletes blobs best effort. Failures are logged, never returned.
func (r *Repository) Remove(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := r.storer.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			r.log.WarnContext(ctx, "attachment cleanup failed", "key", key, "err", err)
		}
	}
}

// Retrieve opens or signs the blob at key.
func (r *Repository) Retrieve(ctx context.Context, key string) (Retrieval, error) {
	ret, err := r.storer.Retrieve(ctx, key)
	if err != nil {
		return Retrieval{}, fmt.Errorf("retrieve %s: %w", key, err)
	}
	return ret, nil
}

// ObjectKey builds tasks/<namespace>/<unixMillis>_<name>.
func ObjectKey(namespace, name string, unixMillis int64) string {
	return path.Join("tasks", namespace, strconv.FormatInt(unixMillis, 10)+"_"+name)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFilename strips any directory part, replaces whitespace runs with
// underscores and drops control characters.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "document.pdf"
	}
	return name
}

func storedKeys(files []StoredFile) []string {
	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = f.Key
	}
	return keys
}
