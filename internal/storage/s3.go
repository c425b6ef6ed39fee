package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"sync"

	appconfig "github.com/docunet-ai/docunet/backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

// NewS3Client creates an S3 client for the configured bucket endpoint.
// Path-style addressing keeps it compatible with S3 work-alikes like MinIO.
func NewS3Client(ctx context.Context, s3cfg appconfig.S3Config) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(s3cfg.Region),
		config.WithBaseEndpoint(s3cfg.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3cfg.AccessKey,
			s3cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// S3Fetcher retrieves raw document bytes from an S3 bucket. Fetched objects
// are cached per key and concurrent fetches are collapsed, matching the
// local filesystem fetcher's behavior.
type S3Fetcher struct {
	client *s3.Client
	bucket string

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3Fetcher creates an object fetcher over an existing client.
func NewS3Fetcher(client *s3.Client, bucket string) *S3Fetcher {
	return &S3Fetcher{
		client: client,
		bucket: bucket,
		cache:  make(map[string][]byte),
	}
}

// FetchFile downloads the object at key.
func (f *S3Fetcher) FetchFile(ctx context.Context, key string) ([]byte, error) {
	f.cacheMu.RLock()
	if cached, ok := f.cache[key]; ok {
		f.cacheMu.RUnlock()
		return cached, nil
	}
	f.cacheMu.RUnlock()

	result, err, _ := f.group.Do(key, func() (any, error) {
		f.cacheMu.RLock()
		if cached, ok := f.cache[key]; ok {
			f.cacheMu.RUnlock()
			return cached, nil
		}
		f.cacheMu.RUnlock()

		object, err := f.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(f.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get object %q: %w", key, err)
		}
		defer object.Body.Close()

		content, err := io.ReadAll(object.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read object %q: %w", key, err)
		}

		f.cacheMu.Lock()
		f.cache[key] = content
		f.cacheMu.Unlock()

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// PutFile uploads a document under path/key with a content type derived
// from its file name and returns the stored object key.
func (f *S3Fetcher) PutFile(ctx context.Context, path, name, key string, file io.ReadSeeker) (string, error) {
	splitExt := strings.Split(name, ".")
	ext := splitExt[len(splitExt)-1]
	mimeType := mime.TypeByExtension("." + ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	objectKey := fmt.Sprintf("%s/%s.%s", path, key, ext)
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", name, err)
	}

	return objectKey, nil
}

// DeleteFile removes an object from the bucket.
func (f *S3Fetcher) DeleteFile(ctx context.Context, key string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}

	f.cacheMu.Lock()
	delete(f.cache, key)
	f.cacheMu.Unlock()

	return nil
}
