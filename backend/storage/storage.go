package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/kurin/blazer/b2"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

type B2Storage struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

func Init(ctx context.Context, keyID, appKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2Storage{Client: client, Bucket: bucket}, nil
}

func (s *B2Storage) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	obj := s.Bucket.Object(key)
	var opts []b2.WriterOption
	if contentType != "" {
		opts = append(opts, b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))
	}
	w := obj.NewWriter(ctx, opts...)

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return fmt.Sprintf("%s/file/%s/%s", s.Bucket.BaseURL(), s.Bucket.Name(), key), nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds uploads/<owner>/<uuid>-<sanitized name>.
func ObjectKey(owner uuid.UUID, original string) (key, filename string) {
	name := path.Base(strings.ReplaceAll(original, "\\", "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "file"
	}
	filename = uuid.NewString() + "-" + name
	return path.Join("uploads", owner.String(), filename), filename
}
