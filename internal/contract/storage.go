package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage keeps one contract PDF per badge on disk, named by badge number.
// Re-uploading overwrites the previous document; the badge record only ever
// holds the path string.
type Storage struct {
	dir string
}

func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Save writes the document for a badge and returns its stored path.
func (s *Storage) Save(badgeNum string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create contract dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("contract_%s.pdf", badgeNum))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create contract file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write contract file: %w", err)
	}
	return path, nil
}

// Exists reports whether the stored path still points at a file on disk.
func (s *Storage) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
