package cloudwriter

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Partition files stay small (one per topic and hour), so a single bounded
// PutObject is enough; no multipart upload.
const defaultUploadTimeout = 2 * time.Minute

type S3Writer struct {
	client        *s3.Client
	bucket        string
	objectPath    string
	uploadTimeout time.Duration
	buffer        bytes.Buffer
}

type S3WriterFactory struct {
	client        *s3.Client
	uploadTimeout time.Duration
}

func NewS3WriterFactory(region string) (*S3WriterFactory, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &S3WriterFactory{
		client:        s3.NewFromConfig(cfg),
		uploadTimeout: defaultUploadTimeout,
	}, nil
}

func (f *S3WriterFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	return &S3Writer{
		client:        f.client,
		bucket:        bucket,
		objectPath:    objectPath,
		uploadTimeout: f.uploadTimeout,
	}, nil
}

func (w *S3Writer) Write(data []byte) (int, error) {
	return w.buffer.Write(data)
}

// Close uploads the buffered object in one PutObject call, bounded by the
// upload timeout.
func (w *S3Writer) Close() error {
	timeout := w.uploadTimeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.objectPath),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", w.bucket, w.objectPath, err)
	}
	return nil
}
