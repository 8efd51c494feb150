package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded images to the configured upload directory. Stored
// names get a random prefix so concurrent uploads with the same client
// filename never collide.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a store for it.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes an upload to disk under a sanitized, collision-free name and
// returns the stored path.
func (s *Store) Save(filename string, data []byte) (string, error) {
	name := sanitizeFilename(filename)
	prefix := uuid.NewString()[:8]
	path := filepath.Join(s.dir, prefix+"_"+name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store upload %q: %w", name, err)
	}
	return path, nil
}

// sanitizeFilename strips path components and characters that are unsafe in
// filenames. Client filenames are untrusted input.
func sanitizeFilename(filename string) string {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if strings.Trim(sanitized, "._") == "" {
		return "upload"
	}
	return sanitized
}
