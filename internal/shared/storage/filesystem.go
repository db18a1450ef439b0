package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage persists uploaded files on disk under a base directory and
// serves them under a URL prefix.
type LocalStorage struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir, urlPrefix string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./media"
	}
	if urlPrefix == "" {
		urlPrefix = "/media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// SaveUpload copies r into folder under a fresh unique name that keeps the
// original extension. It returns the relative storage path.
func (s *LocalStorage) SaveUpload(folder, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	rel := path.Join(folder, uuid.NewString()+ext)

	target := s.resolve(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return rel, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(s.resolve(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// URL returns the public URL of a stored path.
func (s *LocalStorage) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.urlPrefix + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

// Dir is the directory served under URLPrefix.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

func (s *LocalStorage) URLPrefix() string {
	return s.urlPrefix
}

func (s *LocalStorage) resolve(rel string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	return filepath.Join(s.baseDir, clean)
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsImage reports whether name carries one of the recognised image extensions.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

func IsPDF(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".pdf"
}
