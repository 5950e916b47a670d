// Package media stores product images on local disk, the storage backend
// the admin dashboard uploads against.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path images are served under.
const URLPrefix = "/uploads/"

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ErrUnsupportedType rejects uploads that are not images.
var ErrUnsupportedType = errors.New("media: unsupported file type, expected an image")

// Store writes uploaded files into a directory with generated names.
type Store struct {
	dir string
}

// NewStore ensures the upload directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory, used to mount the static file server.
func (s *Store) Dir() string {
	return s.dir
}

// Save sniffs the content type, stores the file under a uuid name and
// returns its public reference.
func (s *Store) Save(file multipart.File, filename string) (string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("media: read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("media: rewind upload: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("media: write file: %w", err)
	}
	_ = filename // original name is not trusted, only kept for the signature
	return URLPrefix + name, nil
}

// Remove deletes a stored file by its public reference. References outside
// the upload prefix are ignored.
func (s *Store) Remove(ref string) error {
	name, ok := s.localName(ref)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("media: remove file: %w", err)
	}
	return nil
}

// Sweep removes stored files that are not in refs and returns how many were
// deleted. It backs the orphan cleanup job.
func (s *Store) Sweep(refs []string) (int, error) {
	keep := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if name, ok := s.localName(ref); ok {
			keep[name] = struct{}{}
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("media: read upload dir: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("media: sweep %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) localName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, URLPrefix) {
		return "", false
	}
	name := filepath.Base(strings.TrimPrefix(ref, URLPrefix))
	if name == "." || name == "/" || name == "" {
		return "", false
	}
	return name, true
}
