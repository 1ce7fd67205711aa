package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// FileStorage stages attachment bytes until a registration is submitted.
type FileStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error

	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// DraftObjectKey returns a fresh key under the draft's prefix, drafts/{draftID}/{uuid}{ext}.
func DraftObjectKey(draftID, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(DraftPrefix(draftID), uuid.New().String()+ext)
}

func DraftPrefix(draftID string) string {
	return fmt.Sprintf("drafts/%s", draftID)
}

// DeleteAll removes every key and returns the first error after trying all of them.
func DeleteAll(ctx context.Context, fs FileStorage, keys []string) error {
	var firstErr error
	for _, k := range keys {
		if err := fs.Delete(ctx, k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
