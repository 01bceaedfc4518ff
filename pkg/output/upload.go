package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// S3Config holds the bucket and connection settings for uploads.
// Empty AccessKey falls back to the SDK's default credential chain.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Custom endpoint for S3-compatible stores, empty for AWS
	AccessKey string
	SecretKey string
	Prefix    string // Key prefix, e.g. "renders/"
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Uploader stores rendered images in an S3 bucket
type Uploader struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewUploader creates an S3 session from cfg
func NewUploader(cfg S3Config) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("output: S3 bucket not configured")
	}

	awsConfig := &aws.Config{}
	if cfg.Region != "" {
		awsConfig.Region = aws.String(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("output: failed to create S3 session: %w", err)
	}

	return NewUploaderWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewUploaderWithClient wraps an existing S3 client
func NewUploaderWithClient(client s3iface.S3API, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Upload encodes img and stores it under prefix+name. It returns the object key.
func (u *Uploader) Upload(ctx context.Context, name string, img image.Image, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return "", err
	}

	key := path.Join(u.prefix, name)
	if err := u.put(ctx, key, buf.Bytes(), format.ContentType()); err != nil {
		return "", err
	}
	return key, nil
}

func (u *Uploader) put(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("output: failed to upload %s: %w", key, err)
	}
	return nil
}
