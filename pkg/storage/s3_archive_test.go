package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ArchiveStore(t *testing.T) {
	fake := &fakePutter{}
	archive := &S3Archive{client: fake, bucket: "resumes"}

	loc, err := archive.Store(context.Background(), "ats/2026/cv.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)
	assert.Equal(t, "s3://resumes/ats/2026/cv.pdf", loc)
	assert.Equal(t, "resumes", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "%PDF", fake.body)
}

func TestS3ArchiveStoreError(t *testing.T) {
	archive := &S3Archive{client: &fakePutter{err: errors.New("denied")}, bucket: "resumes"}
	_, err := archive.Store(context.Background(), "k", "application/pdf", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "denied")
}

func TestS3ConfigEnabled(t *testing.T) {
	assert.False(t, S3Config{}.Enabled())
	assert.True(t, S3ConfigFromEnv("resumes", "ap-south-1", "").Enabled())
}
