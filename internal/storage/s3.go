package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mswdo/soloparent-backend/config"
)

// ErrNotConfigured is returned when no bucket is set. Callers treat uploads
// as optional and keep going without an image URL.
var ErrNotConfigured = errors.New("blob storage not configured")

// Uploader stores base64-encoded images in S3 and hands back public URLs.
type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
	region    string
}

func NewUploader(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	if cfg.S3Bucket == "" {
		log.Println("⚠️ S3_BUCKET not set, image uploads disabled")
		return &Uploader{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &Uploader{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.S3Bucket,
		publicURL: cfg.S3PublicURL,
		region:    cfg.S3Region,
	}, nil
}

// Upload decodes a base64 image (raw or data-URI form) and stores it under
// folder/id. Re-uploading the same key is a no-op that returns the existing
// URL, so retried requests never duplicate storage.
func (u *Uploader) Upload(ctx context.Context, base64Image, folder, id string) (string, error) {
	if u.client == nil {
		return "", ErrNotConfigured
	}

	contentType, data, err := decodeImage(base64Image)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", folder, id, extFor(contentType))

	_, err = u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		log.Printf("ℹ️ Object %s already uploaded, skipping", key)
		return u.urlFor(key), nil
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("✅ Uploaded %s (%d bytes)", key, len(data))
	return u.urlFor(key), nil
}

// Delete removes an object. Missing objects are not an error.
func (u *Uploader) Delete(ctx context.Context, folder, id, contentType string) error {
	if u.client == nil {
		return ErrNotConfigured
	}
	key := fmt.Sprintf("%s/%s%s", folder, id, extFor(contentType))
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (u *Uploader) urlFor(key string) string {
	if u.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(u.publicURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// decodeImage accepts "data:image/png;base64,AAAA" or a bare base64 string.
func decodeImage(raw string) (contentType string, data []byte, err error) {
	contentType = "image/jpeg"
	payload := raw

	if strings.HasPrefix(raw, "data:") {
		parts := strings.SplitN(raw, ",", 2)
		if len(parts) != 2 {
			return "", nil, errors.New("malformed data URI")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		contentType = strings.SplitN(meta, ";", 2)[0]
		payload = parts[1]
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty image")
	}
	return contentType, data, nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}
