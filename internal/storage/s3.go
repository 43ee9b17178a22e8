// Package storage S3 对象存储
package storage

import (
	"bytes"
	"context"
	"fmt"

	"feedback-pipeline/internal/apperrors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// s3API 仅收窄到用到的操作，便于测试替身
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client S3 存储客户端
type Client struct {
	api    s3API
	bucket string
	region string
	logger *zap.Logger
}

// NewClient 创建 S3 客户端（凭证来自环境/IAM 角色）
func NewClient(ctx context.Context, bucket, region string, logger *zap.Logger) (*Client, error) {
	if bucket == "" {
		return nil, &apperrors.ConfigurationError{Key: "REPORT_BUCKET"}
	}
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		api:    s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		logger: logger,
	}, nil
}

// Bucket 返回配置的桶名
func (c *Client) Bucket() string { return c.bucket }

// Put 上传对象并返回可访问地址
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &apperrors.StorageError{Key: key, Err: err}
	}

	location := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)

	c.logger.Info("Object uploaded",
		zap.String("bucket", c.bucket),
		zap.String("key", key),
		zap.Int("size_bytes", len(body)),
	)

	return location, nil
}
