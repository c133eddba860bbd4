// Package media talks to the image host that stores article cover images.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
)

// ErrInvalidSource is returned when a Source carries no image data.
var ErrInvalidSource = errors.New("invalid image input type")

// ErrDeleteFailed is returned when the host does not confirm a deletion.
var ErrDeleteFailed = errors.New("image deletion failed")

// Asset describes an image stored on the host.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
}

// Store is an image host.
type Store interface {
	// Upload stores src under folder. An empty publicID lets the host pick one.
	Upload(ctx context.Context, src Source, folder, publicID string) (*Asset, error)
	// Delete removes the asset with the given host identifier.
	Delete(ctx context.Context, publicID string) error
	// PublicIDFromURL derives the host identifier from a stored URL.
	// It returns "" when the URL does not belong to the host.
	PublicIDFromURL(url string) string
}

// Replace deletes oldPublicID, if any, then uploads src.
// A failed delete is logged and does not stop the upload.
func Replace(ctx context.Context, store Store, oldPublicID string, src Source, folder string) (*Asset, error) {
	if oldPublicID != "" {
		if err := store.Delete(ctx, oldPublicID); err != nil {
			slog.Warn("failed to delete previous image", "public_id", oldPublicID, "error", err)
		}
	}
	return store.Upload(ctx, src, folder, "")
}

// Source is an image to upload: raw bytes with an optional MIME type, or a
// reference string (file path, remote URL or base64 data URI).
type Source struct {
	Data     []byte
	MIMEType string
	Filename string
	Ref      string
}

// FromString wraps a file path, URL or base64 data URI.
func FromString(ref string) Source {
	return Source{Ref: ref}
}

// FromFileHeader reads an uploaded multipart file into memory.
func FromFileHeader(fh *multipart.FileHeader) (Source, error) {
	f, err := fh.Open()
	if err != nil {
		return Source{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Source{}, fmt.Errorf("read upload: %w", err)
	}
	return Source{
		Data:     data,
		MIMEType: fh.Header.Get("Content-Type"),
		Filename: fh.Filename,
	}, nil
}

// DataURI returns the form the host's upload API accepts: the reference
// itself, or the bytes as a base64 data URI.
func (s Source) DataURI() (string, error) {
	if s.Ref != "" {
		return s.Ref, nil
	}
	if len(s.Data) == 0 {
		return "", ErrInvalidSource
	}
	return "data:" + s.mimeType() + ";base64," + base64.StdEncoding.EncodeToString(s.Data), nil
}

// Bytes returns the image bytes and MIME type, decoding data URIs and
// reading file paths. Remote URLs are not fetched.
func (s Source) Bytes() ([]byte, string, error) {
	if len(s.Data) > 0 {
		return s.Data, s.mimeType(), nil
	}
	switch {
	case s.Ref == "":
		return nil, "", ErrInvalidSource
	case strings.HasPrefix(s.Ref, "data:"):
		header, payload, ok := strings.Cut(strings.TrimPrefix(s.Ref, "data:"), ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidSource
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data uri: %w", err)
		}
		mime := strings.TrimSuffix(header, ";base64")
		if mime == "" {
			mime = http.DetectContentType(data)
		}
		return data, mime, nil
	case strings.HasPrefix(s.Ref, "http://"), strings.HasPrefix(s.Ref, "https://"):
		return nil, "", ErrInvalidSource
	default:
		data, err := os.ReadFile(s.Ref)
		if err != nil {
			return nil, "", fmt.Errorf("read image file: %w", err)
		}
		return data, http.DetectContentType(data), nil
	}
}

func (s Source) mimeType() string {
	if s.MIMEType != "" {
		return s.MIMEType
	}
	return "image/jpeg"
}
