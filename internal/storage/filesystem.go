// Package storage keeps generated renders on local disk and serves them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrNoStore    = errors.New("storage: no store configured")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// renderExt maps image mime types to file extensions. WebP is the default.
var renderExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// FileStore writes blobs under root. The API serves root under baseURL so
// stored keys can be handed out as links.
type FileStore struct {
	root    string
	baseURL string
}

// NewFileStore creates root when missing.
func NewFileStore(root, baseURL string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FileStore{root: root, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}, nil
}

// Write stores data at key and returns the cleaned key. The file is written
// to a temporary name first so readers never see a partial render.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", ErrNoStore
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("storage: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("storage: write %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", clean, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("storage: chmod %s: %w", clean, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("storage: rename %s: %w", clean, err)
	}
	return clean, nil
}

// URL returns the public link for a stored key.
func (s *FileStore) URL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s == nil || s.baseURL == "" {
		return "/" + key
	}
	return s.baseURL + "/" + key
}

// Handler serves stored files without directory listings.
func (s *FileStore) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
		files.ServeHTTP(w, r)
	})
}

// RenderKey is the storage key for the image of a recommendation.
func RenderKey(recommendationID, mimeType string) string {
	ext, ok := renderExt[mimeType]
	if !ok {
		ext = ".webp"
	}
	return path.Join("renders", recommendationID+ext)
}

// cleanKey turns key into a slash-separated relative path. Keys with ".."
// segments are rejected outright.
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", ErrInvalidKey
		}
	}
	clean := path.Clean(strings.TrimLeft(key, "/"))
	if clean == "." || clean == "" {
		return "", ErrInvalidKey
	}
	return clean, nil
}
