package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

var (
	ErrArchiveDisabled = errors.New("export archive is not configured")
	ErrArchiveUpload   = errors.New("export upload failed")
)

const defaultLinkExpiry = 15 * time.Minute

// ArchiveConfig points the archive at a bucket. Endpoint selects an
// S3-compatible server and switches to path-style addressing.
type ArchiveConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	LinkExpiry      time.Duration
}

// StoredExport is an uploaded file and a time-limited download link.
type StoredExport struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExportArchive uploads generated exports to S3.
type ExportArchive struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

func NewExportArchive(cfg ArchiveConfig) (*ExportArchive, error) {
	if cfg.Bucket == "" {
		return nil, ErrArchiveDisabled
	}

	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		// Default chain: environment, shared credentials file, instance role
		loaded, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		awsCfg = loaded
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.LinkExpiry
	if expiry <= 0 {
		expiry = defaultLinkExpiry
	}

	return &ExportArchive{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  expiry,
	}, nil
}

// Store uploads data under folder with a unique name keeping the extension
// of filename, and returns a presigned GET link.
func (a *ExportArchive) Store(ctx context.Context, folder, filename, contentType string, data []byte) (*StoredExport, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), filepath.Ext(filename))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, filename)),
	})
	if err != nil {
		logger.Error("Failed to upload export", err, map[string]interface{}{
			"bucket": a.bucket,
			"key":    key,
		})
		return nil, fmt.Errorf("%w: %v", ErrArchiveUpload, err)
	}

	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.expiry))
	if err != nil {
		return nil, fmt.Errorf("%w: presign: %v", ErrArchiveUpload, err)
	}

	logger.Info("Export archived", map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	})

	return &StoredExport{
		Key:         key,
		DownloadURL: req.URL,
		ExpiresAt:   time.Now().Add(a.expiry),
	}, nil
}
