package main

import (
	"fmt"

	"watizat/internal/directory"
	"watizat/internal/storage"
	"watizat/internal/taxonomy"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var locationsCommand = &cli.Command{
	Name:  "locations",
	Usage: "Inspect the help location dataset",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "category",
			Usage: "List the locations of one category instead of the summary",
		},
		&cli.Float64Flag{
			Name:  "lat",
			Usage: "Sort by distance from this latitude (requires --lng)",
		},
		&cli.Float64Flag{
			Name:  "lng",
			Usage: "Sort by distance from this longitude (requires --lat)",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		d, err := loadDirectory(c.Context, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to load help locations: %w", err)
		}

		if !c.IsSet("category") && !c.IsSet("lat") {
			pp.Println(d.Summary())
			return nil
		}

		category, err := taxonomy.ParseSelector(c.String("category"))
		if err != nil {
			return err
		}

		if c.IsSet("lat") != c.IsSet("lng") {
			return fmt.Errorf("--lat and --lng must be given together")
		}

		if !c.IsSet("lat") {
			locations, err := d.ByCategory(category)
			if err != nil {
				return err
			}
			pp.Println(locations)
			return nil
		}

		origin, err := directory.NewPoint(c.Float64("lat"), c.Float64("lng"))
		if err != nil {
			return err
		}

		near, err := d.Near(origin, category, 0)
		if err != nil {
			return err
		}

		pp.Println(near)
		return nil
	},
	Subcommands: []*cli.Command{
		{
			Name:      "publish",
			Usage:     "Validate a dataset file and upload it to LOCATIONS_S3_BUCKET",
			ArgsUsage: "<file>",
			Action: func(c *cli.Context) error {
				path := c.Args().First()
				if path == "" {
					return fmt.Errorf("pass the dataset file to publish")
				}

				cfg, err := loadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}

				if cfg.LocationsS3Bucket == "" {
					return fmt.Errorf("set LOCATIONS_S3_BUCKET")
				}

				data, d, err := directory.ReadFile(path)
				if err != nil {
					return err
				}

				awsConfig, err := loadAWSConfig(c.Context)
				if err != nil {
					return err
				}

				bucket := storage.NewS3Storage(s3.NewFromConfig(awsConfig), cfg.LocationsS3Bucket)
				if err := bucket.WriteFile(c.Context, cfg.LocationsS3Key, data, "application/json"); err != nil {
					return err
				}

				logrus.WithFields(logrus.Fields{
					"bucket":    cfg.LocationsS3Bucket,
					"key":       cfg.LocationsS3Key,
					"locations": d.Len(),
				}).Info("help locations published")
				return nil
			},
		},
	},
}
