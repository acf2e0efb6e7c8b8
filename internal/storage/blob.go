package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore keeps opaque values under string keys, one file per key.
type BlobStore struct {
	dir string
}

func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating blob dir %q: %w", dir, err)
	}
	return &BlobStore{dir: dir}, nil
}

func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := b.checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %q: %w", key, err)
	}
	return data, nil
}

func (b *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := b.checkKey(key); err != nil {
		return err
	}
	return atomicWrite(b.path(key), data, 0644)
}

// Delete removes key. Deleting a missing key is not an error.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	if err := b.checkKey(key); err != nil {
		return err
	}
	err := os.Remove(b.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting blob %q: %w", key, err)
	}
	return nil
}

func (b *BlobStore) checkKey(key string) error {
	if !identifierPattern.MatchString(key) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return nil
}

func (b *BlobStore) path(key string) string {
	return filepath.Join(b.dir, key+".blob")
}
