package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client used by S3Store
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes feedback records to an S3 bucket
type S3Store struct {
	client PutObjectAPI
	bucket string
}

// NewS3Store creates a store writing to bucket
func NewS3Store(client PutObjectAPI, bucket string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	return &S3Store{
		client: client,
		bucket: bucket,
	}, nil
}

// NewS3StoreFromConfig builds the S3 client from a loaded AWS config
func NewS3StoreFromConfig(cfg aws.Config, bucket string) (*S3Store, error) {
	return NewS3Store(s3.NewFromConfig(cfg), bucket)
}

// Bucket returns the target bucket name
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Put uploads body as a JSON object at key
func (s *S3Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}

	return nil
}
