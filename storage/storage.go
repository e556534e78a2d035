// Package storage validates uploaded files and persists them to the
// configured backend.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxFileSize = 10 << 20
	MaxFiles    = 10
	DefaultType = "general"
)

var (
	ErrUnsupportedType = errors.New("Unsupported file type")
	ErrFileTooLarge    = errors.New("File exceeds the 10 MB limit")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "application/pdf"}

// Store writes one object and returns its public URL.
type Store interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// File describes a stored upload.
type File struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// Inspect checks the declared content type and the sniffed content against
// the allow-list and returns the detected type.
func Inspect(declared string, data []byte) (*mimetype.MIME, error) {
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || !allowed(mediaType) {
		return nil, ErrUnsupportedType
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedTypes...) || !detected.Is(mediaType) {
		return nil, ErrUnsupportedType
	}
	return detected, nil
}

func allowed(mediaType string) bool {
	return mimetype.EqualsAny(mediaType, allowedTypes...)
}

// SanitizeType reduces a caller supplied subdirectory to one safe lowercase
// path segment.
func SanitizeType(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() == 64 {
			break
		}
	}
	if b.Len() == 0 {
		return DefaultType
	}
	return b.String()
}

// NewKey builds "<type>/<unixmillis>-<random><ext>". The original filename
// never contributes to the key.
func NewKey(fileType, ext string, now time.Time) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generating file suffix: %w", err)
	}
	name := fmt.Sprintf("%d-%s%s", now.UnixMilli(), hex.EncodeToString(suffix), ext)
	return path.Join(SanitizeType(fileType), name), nil
}

// Uploader applies the upload policy in front of a Store.
type Uploader struct {
	store Store
	now   func() time.Time
}

func NewUploader(store Store) *Uploader {
	return &Uploader{store: store, now: time.Now}
}

// Put validates one file and saves it under fileType.
func (u *Uploader) Put(ctx context.Context, fileType, declared string, data []byte) (File, error) {
	detected, err := Inspect(declared, data)
	if err != nil {
		return File{}, err
	}

	key, err := NewKey(fileType, detected.Extension(), u.now())
	if err != nil {
		return File{}, err
	}

	url, err := u.store.Save(ctx, key, detected.String(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return File{}, fmt.Errorf("saving %s: %w", key, err)
	}
	return File{
		URL:      url,
		Filename: path.Base(key),
		Mimetype: detected.String(),
		Size:     int64(len(data)),
	}, nil
}
