package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"driveops/internal/platform/config"
	"driveops/pkg/platform/sentinel"
)

// S3 stores document files in an S3 bucket. URLs are served from
// PublicBaseURL when configured (a CDN domain), otherwise from the bucket's
// regional endpoint.
type S3 struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3{
		client:        s3.NewFromConfig(sdkConfig),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return s.urlFor(key), nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *S3) KeyForURL(url string) (string, bool) {
	for _, prefix := range []string{
		s.publicBaseURL + "/",
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region),
	} {
		if strings.HasPrefix(url, prefix) && len(url) > len(prefix) {
			return url[len(prefix):], true
		}
	}
	return "", false
}

func (s *S3) urlFor(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
