package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// s3API is the part of the S3 client we use.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds configuration for S3 storage.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services (MinIO, R2, ...)
}

// S3 stores images in an S3-compatible bucket. The object key is the public id.
type S3 struct {
	client    s3API
	bucket    string
	publicURL string
}

var _ Store = (*S3)(nil)

// NewS3 creates an S3 store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	var publicURL string
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	} else {
		client = s3.NewFromConfig(awsCfg)
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	slog.Info("initialized S3 media store", "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &S3{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

// Upload stores the image at <folder>/<publicID or uuid><ext>.
func (s *S3) Upload(ctx context.Context, src Source, folder, publicID string) (*Asset, error) {
	data, mimeType, err := src.Bytes()
	if err != nil {
		return nil, err
	}

	asset := &Asset{
		Format: strings.TrimPrefix(mimeType, "image/"),
		Bytes:  len(data),
	}
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		asset.Width = img.Bounds().Dx()
		asset.Height = img.Bounds().Dy()
	}

	if publicID == "" {
		publicID = uuid.NewString()
	}
	key := path.Join(folder, publicID+extensionFor(mimeType))

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	}); err != nil {
		return nil, fmt.Errorf("upload to S3: %w", err)
	}

	asset.URL = s.publicURL + "/" + key
	asset.PublicID = key
	return asset, nil
}

// Delete removes the object with the given key.
func (s *S3) Delete(ctx context.Context, publicID string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// PublicIDFromURL returns the object key for URLs under the bucket's public URL.
func (s *S3) PublicIDFromURL(url string) string {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
