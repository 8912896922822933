package main

import (
	"fmt"
	"math/rand"
	"time"

	"watizat/internal/db"
	"watizat/internal/seed"
	"watizat/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo users and posts",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "posts",
			Usage: "Number of demo posts to create",
			Value: 25,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Delete previously seeded posts first",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := c.Context

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		if err := seed.SeedUsers(ctx, store.NewUserRepository(pool)); err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return seed.SeedPosts(ctx, pool, store.NewPostRepository(pool), rng, c.Int("posts"), c.Bool("reset"))
	},
}
