package persistence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/okian/gamemash/internal/errs"
)

// S3 defaults.
const (
	defaultS3Key         = "gamemash/state.v1"
	defaultS3Region      = "us-east-1"
	customEndpointRegion = "auto" // R2 and most S3-compatible stores
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures an S3Store.
type S3Config struct {
	Bucket          string
	Key             string
	Endpoint        string // empty for AWS, set for R2 / MinIO
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store keeps the blob as one object.
type S3Store struct {
	client S3API
	bucket string
	key    string
}

// NewS3Store builds an S3 client with static credentials.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	const op = "s3.open"
	switch {
	case cfg.Bucket == "":
		return nil, errs.Invalid(op, "s3 bucket must not be empty")
	case cfg.AccessKeyID == "" || cfg.SecretAccessKey == "":
		return nil, errs.Invalid(op, "s3 credentials must not be empty")
	}

	region := cfg.Region
	if region == "" {
		region = defaultS3Region
		if cfg.Endpoint != "" {
			region = customEndpointRegion
		}
	}

	opts := s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return NewS3StoreWithClient(s3.New(opts), cfg.Bucket, cfg.Key), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client S3API, bucket, key string) *S3Store {
	if key == "" {
		key = defaultS3Key
	}
	return &S3Store{client: client, bucket: bucket, key: key}
}

// Name implements BlobStore.
func (s *S3Store) Name() string { return BackendS3 }

// Load implements BlobStore.
func (s *S3Store) Load(ctx context.Context) ([]byte, error) {
	const op = "s3.load"
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if isNotFound(err) {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, failure(op, err)
	}
	defer func() { _ = out.Body.Close() }()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, failure(op, err)
	}
	return raw, nil
}

// Save implements BlobStore.
func (s *S3Store) Save(ctx context.Context, blob []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(blob),
		ContentLength: aws.Int64(int64(len(blob))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return failure("s3.save", err)
	}
	return nil
}

// Delete implements BlobStore.
func (s *S3Store) Delete(ctx context.Context) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil && !isNotFound(err) {
		return failure("s3.delete", err)
	}
	return nil
}

// Close implements BlobStore.
func (s *S3Store) Close() error { return nil }

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
