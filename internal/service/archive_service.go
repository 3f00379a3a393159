package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GTDGit/kicks_api/internal/config"
)

// ObjectPutter is the part of the S3 client the archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ArchiveService stores raw feed snapshots in S3 so any sync can be replayed.
type ArchiveService struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewArchiveService creates an S3-backed archive. It returns nil, nil when no
// bucket is configured; a nil *ArchiveService archives nothing.
func NewArchiveService(ctx context.Context, cfg *config.ArchiveConfig) (*ArchiveService, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewArchiveServiceWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewArchiveServiceWithClient wires an archive around an existing client.
func NewArchiveServiceWithClient(client ObjectPutter, bucket, prefix string) *ArchiveService {
	return &ArchiveService{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

// Key returns the object key of a run archived at t.
func (a *ArchiveService) Key(runID string, t time.Time) string {
	key := fmt.Sprintf("%04d/%02d/%02d/%s.csv", t.Year(), t.Month(), t.Day(), runID)
	if a.prefix == "" {
		return key
	}
	return a.prefix + "/" + key
}

// Archive uploads raw and returns its key. A nil archive returns "".
func (a *ArchiveService) Archive(ctx context.Context, runID string, raw []byte) (string, error) {
	if a == nil {
		return "", nil
	}
	key := a.Key(runID, a.now().UTC())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("text/csv"),
		Metadata:    map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive feed snapshot: %w", err)
	}
	return key, nil
}
