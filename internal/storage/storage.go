package storage

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go-admin-console/pkg/apierror"
)

// Storage confines all file writes to a single root directory. Client
// supplied paths are cleaned and resolved against the root; anything that
// escapes it is rejected.
type Storage struct {
	rootAbs string
}

func New(root string) (*Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{rootAbs: abs}, nil
}

func (s *Storage) RootAbs() string {
	return s.rootAbs
}

func (s *Storage) Resolve(clientPath string) (string, error) {
	cleaned := filepath.Clean("/" + strings.TrimSpace(clientPath))
	resolved := filepath.Join(s.rootAbs, cleaned)

	if resolved != s.rootAbs && !strings.HasPrefix(resolved, s.rootAbs+string(filepath.Separator)) {
		return "", apierror.New("BAD_REQUEST", "path escapes storage root", clientPath, http.StatusBadRequest)
	}

	return resolved, nil
}

func (s *Storage) Stat(clientPath string) (fs.FileInfo, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.Stat(resolved)
}

func (s *Storage) OpenForWrite(clientPath string) (*os.File, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create parent directory: %w", err)
	}

	return os.OpenFile(resolved, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func (s *Storage) Remove(clientPath string) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil {
		return fmt.Errorf("remove %q: %w", clientPath, err)
	}

	return nil
}
