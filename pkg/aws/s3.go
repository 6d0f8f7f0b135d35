package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the key-addressed blob store boundary used for digital
// download files.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType, contentDisposition string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// S3ObjectStore implements ObjectStore backed by a single S3 bucket.
type S3ObjectStore struct {
	client *s3.Client
	bucket string
}

func NewS3ObjectStore(cfg sdkaws.Config, bucket string) *S3ObjectStore {
	return &S3ObjectStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

// Put writes body under key, tagged with content type and disposition.
func (s *S3ObjectStore) Put(ctx context.Context, key string, body []byte, contentType, contentDisposition string) error {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if contentDisposition != "" {
		input.ContentDisposition = &contentDisposition
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

// Get returns the object's byte stream and stored content type. A missing
// object is reported as ErrObjectNotFound so callers can distinguish storage
// drift from transport failures.
func (s *S3ObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("s3 get %s: %w", key, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

// Delete removes the object under key. Deleting a missing key is not an error.
func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// GeneratePresignedPutURL generates a presigned PUT URL for the provided bucket/key.
func GeneratePresignedPutURL(ctx context.Context, cfg sdkaws.Config, bucket, key string, expirySeconds int64) (string, map[string]string, error) {
	client := s3.NewFromConfig(cfg)
	presigner := s3.NewPresignClient(client)

	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}

	opts := func(o *s3.PresignOptions) {
		o.Expires = time.Duration(expirySeconds) * time.Second
	}

	presigned, err := presigner.PresignPutObject(ctx, input, opts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return presigned.URL, headers, nil
}
