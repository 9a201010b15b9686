package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"imagecollector/config"
	"imagecollector/observability/types"
	storagetypes "imagecollector/storage/types"
)

// API is the subset of the S3 client the adapter uses
type API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Client implements the ObjectStorage interface on one S3 bucket and key prefix
type Client struct {
	api     API
	config  config.S3Config
	logger  types.Logger
	metrics types.Metrics
}

// NewClient creates a new S3 storage client and makes sure the bucket exists
func NewClient(ctx context.Context, cfg *config.StorageConfig, logger types.Logger, metrics types.Metrics) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 configuration: %w", err)
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	client := NewClientWithAPI(api, cfg.S3, logger, metrics)

	checkCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := client.ensureBucketExists(checkCtx); err != nil {
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	return client, nil
}

// NewClientWithAPI wraps an existing S3 API implementation
func NewClientWithAPI(api API, cfg config.S3Config, logger types.Logger, metrics types.Metrics) *Client {
	cfg.Prefix = config.NormalizePrefix(cfg.Prefix)
	return &Client{
		api:     api,
		config:  cfg,
		logger:  logger.WithFields(types.Fields{"storage": "s3", "bucket": cfg.Bucket}),
		metrics: metrics,
	}
}

// Put stores an object in S3
func (c *Client) Put(ctx context.Context, key string, reader io.Reader, metadata storagetypes.ObjectMetadata) error {
	start := time.Now()
	defer func() {
		c.metrics.RecordDuration("put", time.Since(start).Seconds())
	}()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, reader); err != nil {
		c.metrics.RecordError("put", "read")
		c.logger.Error(ctx, "failed to read content", err, types.Fields{"key": key})
		return fmt.Errorf("failed to read content: %w", err)
	}

	return c.putObject(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), metadata)
}

// PutFile uploads a staged local file. The staged file is left in place.
func (c *Client) PutFile(ctx context.Context, key, path string, metadata storagetypes.ObjectMetadata) error {
	start := time.Now()
	defer func() {
		c.metrics.RecordDuration("put_file", time.Since(start).Seconds())
	}()

	file, err := os.Open(path)
	if err != nil {
		c.metrics.RecordError("put_file", "open")
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		c.metrics.RecordError("put_file", "stat")
		return fmt.Errorf("failed to stat staged file: %w", err)
	}

	return c.putObject(ctx, key, file, info.Size(), metadata)
}

func (c *Client) putObject(ctx context.Context, key string, body io.Reader, size int64, metadata storagetypes.ObjectMetadata) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.config.Bucket),
		Key:           aws.String(c.fullKey(key)),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if metadata.ContentType != "" {
		input.ContentType = aws.String(metadata.ContentType)
	}
	if len(metadata.UserMetadata) > 0 {
		input.Metadata = metadata.UserMetadata
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		c.metrics.RecordError("put", "put_object")
		c.logger.Error(ctx, "failed to put object", err, types.Fields{"key": key})
		return fmt.Errorf("failed to put object: %w", err)
	}

	c.metrics.RecordSuccess("put")
	c.logger.Debug(ctx, "object stored successfully", types.Fields{
		"key":  key,
		"size": size,
	})

	return nil
}

// Get retrieves an object from S3
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(c.fullKey(key)),
	})
	if err != nil {
		if isNotFoundError(err) {
			c.metrics.RecordError("get", "not_found")
			return nil, fmt.Errorf("%w: %s", storagetypes.ErrObjectNotFound, key)
		}
		c.metrics.RecordError("get", "get_object")
		c.logger.Error(ctx, "failed to get object", err, types.Fields{"key": key})
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	c.metrics.RecordSuccess("get")
	return result.Body, nil
}

// Exists checks if an object exists in S3
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(c.fullKey(key)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

// List returns the objects directly under the configured prefix, with keys
// relative to it. Nested keys and staged temp objects are skipped.
func (c *Client) List(ctx context.Context, prefix string) ([]storagetypes.ObjectInfo, error) {
	start := time.Now()

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.config.Bucket),
	}
	if full := c.fullKey(prefix); full != "" {
		input.Prefix = aws.String(full)
	}

	var objects []storagetypes.ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(c.api, input)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.metrics.RecordError("list", "list_objects")
			c.logger.Error(ctx, "failed to list objects", err, types.Fields{"prefix": prefix})
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), c.config.Prefix)
			if key == "" || strings.Contains(key, "/") || strings.HasSuffix(key, storagetypes.TempSuffix) {
				continue
			}
			objects = append(objects, storagetypes.ObjectInfo{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	c.metrics.RecordSuccess("list")
	c.metrics.RecordDuration("list", time.Since(start).Seconds())
	c.logger.Debug(ctx, "objects listed successfully", types.Fields{
		"prefix": prefix,
		"count":  len(objects),
	})

	return objects, nil
}

// Location returns the s3:// URI of an object
func (c *Client) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", c.config.Bucket, c.fullKey(key))
}

func (c *Client) fullKey(key string) string {
	return c.config.Prefix + strings.TrimPrefix(key, "/")
}

// ensureBucketExists checks the configured bucket and creates it when missing
func (c *Client) ensureBucketExists(ctx context.Context) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.Bucket),
	})
	if err == nil {
		return nil
	}

	var nf *s3types.NotFound
	if !errors.As(err, &nf) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	c.logger.Info(ctx, "bucket does not exist, attempting to create", nil)

	input := &s3.CreateBucketInput{
		Bucket: aws.String(c.config.Bucket),
	}
	if c.config.Region != "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.config.Region),
		}
	}

	if _, err := c.api.CreateBucket(ctx, input); err != nil {
		var bae *s3types.BucketAlreadyExists
		var baoyb *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &bae) || errors.As(err, &baoyb) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	c.logger.Info(ctx, "bucket created successfully", nil)
	return nil
}

// buildAWSConfig builds the AWS configuration from the storage config
func buildAWSConfig(ctx context.Context, storageConfig *config.StorageConfig) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	s3Config := storageConfig.S3

	if s3Config.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(s3Config.Region))
	}

	if s3Config.AccessKeyID != "" && s3Config.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3Config.AccessKeyID, s3Config.SecretAccessKey, ""),
		))
	}

	if storageConfig.MaxRetries > 0 {
		optFns = append(optFns, awsconfig.WithRetryMaxAttempts(storageConfig.MaxRetries))
	}

	optFns = append(optFns, awsconfig.WithHTTPClient(&http.Client{
		Timeout: storageConfig.Timeout,
	}))

	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}

// isNotFoundError checks if an error is a not found error
func isNotFoundError(err error) bool {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
