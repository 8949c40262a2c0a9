package report

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ArchivePut(t *testing.T) {
	fake := &fakeS3{}
	a := &S3Archive{client: fake, bucket: "reports"}

	require.NoError(t, a.Put(context.Background(), "reports/u/2024/02/x.pdf", []byte("%PDF-1.3")))
	require.Equal(t, "reports", aws.ToString(fake.in.Bucket))
	require.Equal(t, "reports/u/2024/02/x.pdf", aws.ToString(fake.in.Key))
	require.Equal(t, "application/pdf", aws.ToString(fake.in.ContentType))
	require.Equal(t, []byte("%PDF-1.3"), fake.body)

	fake.err = errors.New("bucket missing")
	require.ErrorContains(t, a.Put(context.Background(), "k", nil), "bucket missing")
}

func TestNewS3ArchiveStaticCredentials(t *testing.T) {
	a, err := NewS3Archive(context.Background(), S3Config{
		Bucket:    "reports",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.Equal(t, "reports", a.bucket)
}
