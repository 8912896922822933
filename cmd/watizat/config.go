package main

import (
	"context"
	"fmt"

	"watizat/internal/directory"
	"watizat/internal/storage"
	"watizat/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return c, nil
}

// loadDatabaseConfig is loadConfig for commands that open a pool.
func loadDatabaseConfig() (*types.Config, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(c *types.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	return logger, nil
}

// loadDirectory reads the help location dataset from S3 or a local file when
// configured, falling back to the copy compiled into the binary.
func loadDirectory(ctx context.Context, c *types.Config, logger *logrus.Logger) (*directory.Directory, error) {
	switch {
	case c.LocationsS3Bucket != "":
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}

		bucket := storage.NewS3Storage(s3.NewFromConfig(awsConfig), c.LocationsS3Bucket)
		logger.WithFields(logrus.Fields{"bucket": bucket.Bucket(), "key": c.LocationsS3Key}).Info("loading help locations from s3")
		return directory.LoadRemote(ctx, bucket, c.LocationsS3Key)

	case c.LocationsFile != "":
		logger.WithField("path", c.LocationsFile).Info("loading help locations from file")
		return directory.LoadFile(c.LocationsFile)

	default:
		return directory.Embedded()
	}
}
