package minio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sony/gobreaker"

	"github.com/GoArmGo/PetFinder/internal/adapter/breaker"
	appconfig "github.com/GoArmGo/PetFinder/internal/config"
	"github.com/GoArmGo/PetFinder/internal/domain"
)

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Client представляет собой клиент для взаимодействия с MinIO (S3-совместимым хранилищем).
// Реализует ports.ImageStore.
type Client struct {
	uploader   objectUploader
	bucketName string
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewMinioClient создает и инициализирует новый MinIO Client, используя переданную конфигурацию.
func NewMinioClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	var endpointURL string
	if cfg.MinioUseSSL {
		endpointURL = fmt.Sprintf("https://%s", cfg.MinioEndpoint)
	} else {
		endpointURL = fmt.Sprintf("http://%s", cfg.MinioEndpoint)
	}

	cfgAws, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.MinioRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(cfgAws, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true
	})

	if err := ensureBucket(ctx, s3Client, cfg.MinioBucketName, cfg.MinioRegion, logger); err != nil {
		return nil, err
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		publicURL = endpointURL
	}

	return newClient(manager.NewUploader(s3Client), cfg.MinioBucketName, publicURL, logger), nil
}

func newClient(uploader objectUploader, bucket, publicURL string, logger *slog.Logger) *Client {
	return &Client{
		uploader:   uploader,
		bucketName: bucket,
		baseURL:    strings.TrimRight(publicURL, "/") + "/" + bucket,
		cb:         breaker.New("image-store", logger, nil),
		logger:     logger,
	}
}

func ensureBucket(ctx context.Context, s3Client *s3.Client, bucket, region string, logger *slog.Logger) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		logger.Info("bucket already exists", "bucket", bucket)
		return nil
	}

	logger.Info("bucket not found, creating", "bucket", bucket)
	_, err := s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket '%s': %w", bucket, err)
	}

	waiter := s3.NewBucketExistsWaiter(s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}, 30*time.Second); err != nil {
		return fmt.Errorf("failed waiting for bucket '%s' to be created: %w", bucket, err)
	}

	logger.Info("bucket created successfully", "bucket", bucket)
	return nil
}

// Upload декодирует изображение и кладёт его в бакет под ключом, зависящим только от содержимого.
// Повторная загрузка тех же байт даёт тот же URL.
func (c *Client) Upload(ctx context.Context, rawImage string) (string, error) {
	img, err := decodeImage(rawImage)
	if err != nil {
		return "", err
	}

	key := objectKey(img)
	start := time.Now()

	_, err = c.cb.Execute(func() (interface{}, error) {
		return c.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(img.data),
			ContentType: aws.String(img.contentType),
		})
	})
	if err != nil {
		c.logger.Error("image upload failed", "key", key, "error", err)
		return "", domain.Upstream("image store", err)
	}

	c.logger.Info("image uploaded",
		"key", key,
		"size_bytes", len(img.data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c.baseURL + "/" + key, nil
}

// IsResolvedURL сообщает, что ref уже указывает на объект в этом бакете.
func (c *Client) IsResolvedURL(ref string) bool {
	return strings.HasPrefix(ref, c.baseURL+"/")
}
