package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config locates the backup object.
type S3Config struct {
	Bucket string
	Key    string
	Region string
	// Endpoint enables path-style addressing against an S3-compatible
	// server such as MinIO.
	Endpoint string
}

// objectPutter is the slice of the S3 API a destination needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Destination writes JSONL data to an S3-compatible bucket.
type S3Destination struct {
	client objectPutter
	cfg    S3Config
}

// NewS3Destination creates an S3 destination using the default AWS
// credential chain.
func NewS3Destination(ctx context.Context, cfg S3Config) (*S3Destination, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, errors.New("s3 destination: bucket and key are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(awsCfg, s3opts...),
		cfg:    cfg,
	}, nil
}

func (d *S3Destination) Name() string {
	return "s3://" + d.cfg.Bucket + "/" + d.cfg.Key
}

// Write replaces the configured object with data. The export format version
// rides along as object metadata so restores can check it without a download.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.cfg.Bucket),
		Key:           aws.String(d.cfg.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/x-ndjson"),
		Metadata:      map[string]string{"cinemap-format": FormatVersion},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", d.Name(), err)
	}
	return nil
}
