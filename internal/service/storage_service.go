package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	cfg "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/media"
)

// StorageService archives materialized media to R2 so a failed draft's
// pending record survives scratch-file cleanup and retry can replay it.
type StorageService interface {
	Archive(ctx context.Context, asset *media.Asset) (string, error)
}

type r2Storage struct {
	config cfg.Config
}

func NewStorageService(cfg cfg.Config) StorageService {
	return &r2Storage{config: cfg}
}

func (r *r2Storage) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

// Archive uploads the asset under a fresh key and returns the public URL.
func (r *r2Storage) Archive(ctx context.Context, asset *media.Asset) (string, error) {
	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	client, err := r.r2Client(ctx)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(asset.Bytes),
		ContentType: aws.String(asset.MIMEType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return fmt.Sprintf("%s/%s", r.config.R2.PublicBase, key), nil
}
