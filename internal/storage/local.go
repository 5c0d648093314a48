package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements ObjectStore on the local filesystem. Useful for
// development and tests; the served URL is derived from a configured base.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates the base directory if it does not exist.
func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *LocalStore) Put(_ context.Context, objectPath string, content []byte, _ string) (string, error) {
	full := filepath.Join(l.baseDir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	// os.WriteFile truncates an existing file, which gives us upsert for free
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}
	return l.urlFor(objectPath, full), nil
}

func (l *LocalStore) Remove(_ context.Context, objectPath string) error {
	full := filepath.Join(l.baseDir, filepath.FromSlash(objectPath))
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

func (l *LocalStore) urlFor(objectPath, full string) string {
	if l.baseURL != "" {
		return l.baseURL + "/" + objectPath
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		abs = full
	}
	return "file://" + filepath.ToSlash(abs)
}
