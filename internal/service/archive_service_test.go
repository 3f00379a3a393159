package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kicks_api/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveService_Key(t *testing.T) {
	at := time.Date(2025, time.March, 7, 23, 0, 0, 0, time.UTC)

	a := NewArchiveServiceWithClient(&fakePutter{}, "bucket", "/inventory-feed/")
	assert.Equal(t, "inventory-feed/2025/03/07/run-1.csv", a.Key("run-1", at))

	bare := NewArchiveServiceWithClient(&fakePutter{}, "bucket", "")
	assert.Equal(t, "2025/03/07/run-1.csv", bare.Key("run-1", at))
}

func TestArchiveService_Archive(t *testing.T) {
	putter := &fakePutter{}
	a := NewArchiveServiceWithClient(putter, "kicks-archive", "inventory-feed")
	a.now = func() time.Time { return time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC) }

	key, err := a.Archive(context.Background(), "run-9", []byte("a,b\n"))
	require.NoError(t, err)

	assert.Equal(t, "inventory-feed/2025/01/02/run-9.csv", key)
	require.NotNil(t, putter.input)
	assert.Equal(t, "kicks-archive", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "run-9", putter.input.Metadata["run-id"])
	assert.Equal(t, []byte("a,b\n"), putter.body)
}

func TestArchiveService_ArchiveError(t *testing.T) {
	a := NewArchiveServiceWithClient(&fakePutter{err: errors.New("AccessDenied")}, "b", "p")

	key, err := a.Archive(context.Background(), "run-1", nil)
	assert.Empty(t, key)
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestArchiveService_Disabled(t *testing.T) {
	a, err := NewArchiveService(context.Background(), &config.ArchiveConfig{Region: "ap-southeast-1"})
	require.NoError(t, err)
	assert.Nil(t, a)

	key, err := a.Archive(context.Background(), "run-1", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, key)
}
