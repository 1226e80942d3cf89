package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Abraxas-365/fileutil/pkg/config"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/fsx/fsxafero"
	"github.com/Abraxas-365/fileutil/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/fileutil/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/fileutil/pkg/logx"
)

// Container holds the configured storage and the helper built on it
type Container struct {
	Config     *config.Config
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	Helper     *fsx.Helper
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initFileStorage(ctx); err != nil {
		return nil, err
	}
	c.Helper = fsx.NewHelper(c.FileSystem, fsx.WithLogger(logx.GetDefaultLogger()))

	return c, nil
}

func (c *Container) initFileStorage(ctx context.Context) error {
	storage := c.Config.Storage

	switch storage.Mode {
	case config.StorageS3:
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(storage.AWSRegion))
		if err != nil {
			return fmt.Errorf("unable to load AWS SDK config: %w", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if storage.AWSEndpoint != "" {
				o.BaseEndpoint = aws.String(storage.AWSEndpoint)
				o.UsePathStyle = true
			}
		})
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, storage.AWSBucket, storage.AWSPrefix)
		logx.WithFields(logx.Fields{
			"bucket": storage.AWSBucket,
			"region": storage.AWSRegion,
			"prefix": storage.AWSPrefix,
		}).Debug("s3 file system configured")

	case config.StorageLocal:
		localFS, err := fsxlocal.NewLocalFileSystem(storage.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to initialize local file system: %w", err)
		}
		c.FileSystem = localFS
		logx.WithField("path", localFS.GetBasePath()).Debug("local file system configured")

	case config.StorageMemory:
		c.FileSystem = fsxafero.NewMemory()
		logx.Debug("in-memory file system configured")

	default:
		return fmt.Errorf("unknown STORAGE_MODE: %s (use 'local', 'memory' or 's3')", storage.Mode)
	}

	return nil
}
