package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
)

type Storage struct {
	basePath      string
	publicBaseURL string
}

// New stores objects under basePath. URLs handed out are publicBaseURL/key.
func New(basePath, publicBaseURL string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "/files"
	}
	return &Storage{basePath: basePath, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *Storage) Put(_ context.Context, key, _ string, data []byte) (domain.StoredObject, error) {
	path, err := s.resolve(key)
	if err != nil {
		return domain.StoredObject{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.StoredObject{}, fmt.Errorf("write file: %w", err)
	}
	return domain.StoredObject{ID: key, URL: s.publicBaseURL + "/" + key}, nil
}

func (s *Storage) Delete(_ context.Context, id string) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// resolve keeps keys inside basePath.
func (s *Storage) resolve(key string) (string, error) {
	if key == "" || filepath.Base(key) != key || key == "." || key == ".." {
		return "", domain.WrapError(domain.ErrInvalidInput, "resolve storage key", fmt.Errorf("invalid key %q", key))
	}
	return filepath.Join(s.basePath, key), nil
}
