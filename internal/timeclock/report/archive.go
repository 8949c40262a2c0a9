package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores rendered reports.
type Archive interface {
	Put(ctx context.Context, key string, body []byte) error
}

// ArchiveKey is the object key of one archived report:
// reports/{userID}/{yyyy}/{mm}/{id}.pdf.
func ArchiveKey(userID string, at time.Time, id string) string {
	at = at.UTC()
	return fmt.Sprintf("reports/%s/%04d/%02d/%s.pdf", userID, at.Year(), int(at.Month()), id)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // custom endpoint for MinIO and friends; empty for AWS
	AccessKey string
	SecretKey string
}

// putObjectAPI is the part of *s3.Client the archive uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client putObjectAPI
	bucket string
}

// NewS3Archive builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewS3Archive(ctx context.Context, cfg S3Config) (*S3Archive, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

func (a *S3Archive) Put(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
