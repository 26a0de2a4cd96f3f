package exporter

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"wasabi-history/internal/history/config"
	"wasabi-history/internal/history/monitor"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectPutter s3.Client 的子集
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader 把导出文件上传到 S3 兼容存储
type S3Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	tl     *zap.Logger
}

// NewS3Uploader 根据配置创建 S3 客户端；配置了 endpoint 时按 path-style 访问（MinIO/R2）
func NewS3Uploader(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 export: bucket name is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 export: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := normaliseEndpoint(cfg.Endpoint)
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewS3UploaderWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, cfg.Prefix, logger), nil
}

func NewS3UploaderWithClient(client ObjectPutter, bucket, prefix string, logger *zap.Logger) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		tl:     logger,
	}
}

// Upload 上传本地文件，返回对象 key
func (u *S3Uploader) Upload(ctx context.Context, localPath string, rows int) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 export: open %s: %w", localPath, err)
	}
	defer f.Close()

	key := path.Join(u.prefix, filepath.Base(localPath))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 export: put object %s: %w", key, err)
	}

	monitor.RowsExported.WithLabelValues("s3").Add(float64(rows))
	u.tl.Info("Uploaded trades", zap.String("bucket", u.bucket), zap.String("key", key))
	return key, nil
}

func normaliseEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" {
		return endpoint
	}
	return "https://" + endpoint
}
