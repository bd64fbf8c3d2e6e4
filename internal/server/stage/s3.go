package stage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3API is the subset of *s3.Client the stager uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures an S3-compatible endpoint such as MinIO.
type S3Options struct {
	User         string
	Password     string
	Region       string
	BaseEndpoint string
	Bucket       string
	Prefix       string
}

// NewS3Client builds an S3 client with static credentials and a custom
// endpoint. Path-style addressing is used so MinIO works without DNS.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.User,
			o.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(so *s3.Options) {
		so.BaseEndpoint = aws.String(o.BaseEndpoint)
		so.UsePathStyle = true
	}), nil
}

// S3Stager stages documents as objects under <prefix>/<scope-uuid>/.
type S3Stager struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Stager(client S3API, bucket, prefix string) *S3Stager {
	return &S3Stager{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Stager) Stage(ctx context.Context, docs []Document) (*Set, error) {
	if err := Validate(docs); err != nil {
		return nil, err
	}

	scope := path.Join(s.prefix, uuid.NewString())
	var keys []string
	release := func(ctx context.Context) error {
		var errs []error
		for _, k := range keys {
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(k),
			}); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
			}
		}
		return errors.Join(errs...)
	}

	artifacts := make([]*Artifact, 0, len(docs))
	for _, d := range docs {
		key := path.Join(scope, stagedName(d.Kind, uuid.NewString()))

		// PutObject needs a seekable body to compute the payload hash.
		data, err := io.ReadAll(d.Body)
		if err == nil {
			_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:        aws.String(s.bucket),
				Key:           aws.String(key),
				Body:          bytes.NewReader(data),
				ContentLength: aws.Int64(int64(len(data))),
				ContentType:   aws.String(common.MediaTypePDF),
			})
		}
		if err != nil {
			_ = release(ctx)
			return nil, fmt.Errorf("%w: %s: %v", common.ErrStageIO, d.Kind, err)
		}
		keys = append(keys, key)

		artifacts = append(artifacts, &Artifact{
			Kind:      d.Kind,
			Filename:  d.Filename,
			MediaType: common.MediaTypePDF,
			Location:  key,
			open: func(ctx context.Context) (io.ReadCloser, error) {
				out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
					Bucket: aws.String(s.bucket),
					Key:    aws.String(key),
				})
				if err != nil {
					return nil, err
				}
				return out.Body, nil
			},
		})
	}

	return newSet(artifacts, release), nil
}
