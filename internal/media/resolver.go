// Package media turns stored file ids (uploaded recordings, listening audio)
// into URLs a browser can play.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lshigami/ieltsprep/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

var ErrEmptyFileID = errors.New("media: empty file id")

type Resolver interface {
	ResolveURL(ctx context.Context, fileID string) (string, error)
}

// NewResolver returns a presigning MinIO resolver when an endpoint is
// configured, otherwise a static resolver over the assets base URL.
func NewResolver(cfg *config.Config) (Resolver, error) {
	if cfg.Media.MinioEndpoint == "" {
		return &StaticResolver{BaseURL: cfg.Media.AssetsBaseURL}, nil
	}
	region := cfg.Media.MinioRegion
	if region == "" {
		// Presigning with no region makes a bucket-location request to the server.
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Media.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Media.MinioAccessKey, cfg.Media.MinioSecretKey, ""),
		Secure: cfg.Media.MinioUseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}
	log.Info().Str("endpoint", cfg.Media.MinioEndpoint).Str("bucket", cfg.Media.MinioBucket).Msg("Media URLs will be presigned by MinIO")
	return &MinioResolver{client: client, bucket: cfg.Media.MinioBucket, expiry: cfg.Media.URLExpiry}, nil
}

// StaticResolver maps an id to {BaseURL}/{id}.
type StaticResolver struct {
	BaseURL string
}

func (r *StaticResolver) ResolveURL(_ context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", ErrEmptyFileID
	}
	return strings.TrimRight(r.BaseURL, "/") + "/" + url.PathEscape(fileID), nil
}

type MinioResolver struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func (r *MinioResolver) ResolveURL(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", ErrEmptyFileID
	}
	expiry := r.expiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	u, err := r.client.PresignedGetObject(ctx, r.bucket, fileID, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", r.bucket, fileID, err)
	}
	return u.String(), nil
}
