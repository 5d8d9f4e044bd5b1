package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const imageKeyPrefix = "products/"

// ImageStore persists product images and hands back durable URLs.
type ImageStore interface {
	Upload(ctx context.Context, dataURI string) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// S3ImageStore implements ImageStore on an S3 bucket.
type S3ImageStore struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3ImageStore creates a new S3ImageStore.
func NewS3ImageStore(cfg sdkaws.Config, bucket string) *S3ImageStore {
	return &S3ImageStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: cfg.Region,
	}
}

// Upload decodes a base64 data URI and stores it under a generated key,
// returning the object's public URL.
func (s *S3ImageStore) Upload(ctx context.Context, dataURI string) (string, error) {
	contentType, payload, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := imageKeyPrefix + uuid.NewString() + extensionFor(contentType)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes the object behind an image URL. The key is derived from
// the URL's last path segment, matching what Upload generates; URLs
// outside this store's bucket are rejected rather than guessed at.
func (s *S3ImageStore) Delete(ctx context.Context, imageURL string) error {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, imageKeyPrefix)
	if !strings.HasPrefix(imageURL, prefix) {
		return fmt.Errorf("image URL %q does not belong to bucket %s", imageURL, s.bucket)
	}

	parts := strings.Split(imageURL, "/")
	key := imageKeyPrefix + parts[len(parts)-1]

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// decodeDataURI splits "data:image/png;base64,...." into its content type
// and decoded payload.
func decodeDataURI(dataURI string) (string, []byte, error) {
	header, encoded, found := strings.Cut(dataURI, ",")
	if !found || !strings.HasPrefix(header, "data:") {
		return "", nil, fmt.Errorf("malformed image data URI")
	}

	contentType := strings.TrimPrefix(header, "data:")
	contentType = strings.TrimSuffix(contentType, ";base64")

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return contentType, payload, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
