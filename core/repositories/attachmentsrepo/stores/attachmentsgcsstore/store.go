// Package attachmentsgcsstore keeps attachment blobs in a Google Cloud
// Storage bucket and hands out V4 signed URLs for downloads.
package attachmentsgcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo"
	"github.com/jrazmi/taskforge/sdk/environment"
	"google.golang.org/api/option"
)

// Options is the exportable bucket configuration.
type Options struct {
	Bucket          string        `env:"GCS_BUCKET"`
	CredentialsFile string        `env:"GCS_CREDENTIALS_FILE"`
	SignedURLTTL    time.Duration `env:"SIGNED_URL_TTL" default:"60s"`
}

// Store implements attachmentsrepo.Storer on GCS.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	ttl    time.Duration
	now    func() time.Time
}

// NewFromEnv reads Options from PREFIX_GCS_* variables.
func NewFromEnv(ctx context.Context, prefix string) (*Store, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing gcs config: %w", err)
	}
	return New(ctx, cfg)
}

// New opens a storage client. Credentials come from CredentialsFile when
// set, otherwise from Application Default Credentials.
func New(ctx context.Context, cfg Options) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Store{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Close releases the storage client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Kind() string {
	return attachmentsrepo.KindGCS
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, body)
	if err != nil {
		// Cancelling before Close aborts the upload instead of committing it.
		cancel()
		w.Close()
		return 0, fmt.Errorf("upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("finalize upload: %w", err)
	}

	return n, nil
}

// Retrieve confirms the object exists and signs a GET URL for it.
func (s *Store) Retrieve(ctx context.Context, key string) (attachmentsrepo.Retrieval, error) {
	if _, err := s.bucket.Object(key).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return attachmentsrepo.Retrieval{}, attachmentsrepo.ErrNotFound
		}
		return attachmentsrepo.Retrieval{}, fmt.Errorf("stat object: %w", err)
	}

	url, err := s.bucket.SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: s.now().Add(s.ttl),
	})
	if err != nil {
		return attachmentsrepo.Retrieval{}, fmt.Errorf("sign url: %w", err)
	}

	return attachmentsrepo.Retrieval{URL: url}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
