package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"asciiray/pkg/config"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// Content types of the published objects
const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypePNG  = "image/png"
)

// Uploader publishes rendered frames to an S3 compatible bucket
type Uploader struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewUploader creates an uploader with a real S3 session built from cfg
func NewUploader(cfg config.S3Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket not configured")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewUploaderWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewUploaderWithClient wraps an existing S3 client
func NewUploaderWithClient(client s3iface.S3API, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a frame id and file extension
func (u *Uploader) Key(id, ext string) string {
	return path.Join(u.prefix, id+ext)
}

// Upload stores data under key
func (u *Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Frame is one rendered frame ready for publishing
type Frame struct {
	ID   string
	Text []byte
	PNG  []byte // optional
}

// UploadFrame publishes the text version of a frame and, when present, its
// PNG preview. It returns the keys written.
func (u *Uploader) UploadFrame(ctx context.Context, frame Frame) ([]string, error) {
	var keys []string

	textKey := u.Key(frame.ID, ".txt")
	if err := u.Upload(ctx, textKey, frame.Text, ContentTypeText); err != nil {
		return keys, err
	}
	keys = append(keys, textKey)

	if len(frame.PNG) > 0 {
		pngKey := u.Key(frame.ID, ".png")
		if err := u.Upload(ctx, pngKey, frame.PNG, ContentTypePNG); err != nil {
			return keys, err
		}
		keys = append(keys, pngKey)
	}

	return keys, nil
}
