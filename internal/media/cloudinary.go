package media

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// cloudinaryAPI is the part of the Cloudinary upload API we use.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary stores images on Cloudinary.
type Cloudinary struct {
	api cloudinaryAPI
}

var _ Store = (*Cloudinary)(nil)

// NewCloudinary creates a Cloudinary store from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Cloudinary{api: &cld.Upload}, nil
}

// Upload sends the image with automatic quality and format optimization.
func (c *Cloudinary) Upload(ctx context.Context, src Source, folder, publicID string) (*Asset, error) {
	file, err := src.DataURI()
	if err != nil {
		return nil, err
	}

	res, err := c.api.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	return &Asset{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		Bytes:    res.Bytes,
	}, nil
}

// Delete destroys an image. Only a result of "ok" counts as success.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	res, err := c.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Result != "ok" {
		if res.Error.Message != "" {
			return fmt.Errorf("%w: %s", ErrDeleteFailed, res.Error.Message)
		}
		return fmt.Errorf("%w: %s", ErrDeleteFailed, res.Result)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)
var fileExtension = regexp.MustCompile(`\.[^/.]+$`)

// PublicIDFromURL extracts the public id from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v123/articles/abc.jpg.
func (c *Cloudinary) PublicIDFromURL(url string) string {
	return cloudinaryPublicID(url)
}

func cloudinaryPublicID(url string) string {
	if url == "" || !strings.Contains(url, "cloudinary.com") {
		return ""
	}

	parts := strings.Split(url, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}
	if uploadIndex == -1 {
		return ""
	}

	rest := parts[uploadIndex+1:]
	if len(rest) > 0 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	return fileExtension.ReplaceAllString(strings.Join(rest, "/"), "")
}
