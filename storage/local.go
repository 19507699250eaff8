package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"venue-booking/logger"

	"github.com/gabriel-vasile/mimetype"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// allowed venue image types, checked against sniffed content rather
// than the client-supplied extension
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".gif":  true,
	".webp": true,
}

// LocalStorage keeps uploaded media on the local filesystem under a
// single root, mirrored by a URL prefix for serving.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates the media root if missing.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if root == "" {
		root = "media"
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}

	logger.Success(fmt.Sprintf("Local media storage initialized: %s", root))
	return &LocalStorage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// SaveVenueImage stores an uploaded image under venues/ and returns the
// relative path recorded on the venue. The content is sniffed; files
// that are not images are rejected regardless of their name.
func (s *LocalStorage) SaveVenueImage(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contents, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	kind := mimetype.Detect(contents)
	ext := kind.Extension()
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if !strings.HasPrefix(kind.String(), "image/") || !allowedImageExts[ext] {
		return "", ErrUnsupportedImage
	}

	name := fmt.Sprintf("venue_%d%s", time.Now().UnixNano(), ext)
	relative := filepath.ToSlash(filepath.Join("venues", name))
	fullPath := filepath.Join(s.root, "venues", name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(fullPath, contents, 0644); err != nil {
		logger.Error("Failed to write uploaded image", err)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Success(fmt.Sprintf("Image saved: %s (%d bytes)", relative, len(contents)))
	return relative, nil
}

// URL maps a stored relative path to its public URL.
func (s *LocalStorage) URL(path string) string {
	if path == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// URLPrefix returns the public prefix stored paths are served under,
// with a trailing slash.
func (s *LocalStorage) URLPrefix() string {
	return s.baseURL + "/"
}

// Root returns the filesystem root for static serving.
func (s *LocalStorage) Root() string {
	return s.root
}
