package asset

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket    string
	Region    string
	Prefix    string
	Endpoint  string
	AccessKey string
	SecretKey string
	BaseURL   string
}

// S3Volume uploads files to an S3 compatible bucket.
type S3Volume struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	baseURL  string
}

func NewS3Volume(ctx context.Context, cfg S3Config) (*S3Volume, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 volume requires a bucket")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
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

	return &S3Volume{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (v *S3Volume) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, string, error) {
	objectKey := key
	if v.prefix != "" {
		objectKey = path.Join(v.prefix, key)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(objectKey),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := v.uploader.Upload(ctx, input)
	if err != nil {
		return "", "", fmt.Errorf("upload s3://%s/%s: %w", v.bucket, objectKey, err)
	}

	if v.baseURL != "" {
		return "", v.baseURL + "/" + objectKey, nil
	}
	return "", out.Location, nil
}
