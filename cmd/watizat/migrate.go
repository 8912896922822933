package main

import (
	"fmt"

	"watizat/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the database schema",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "print",
			Usage: "Print the schema instead of applying it",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Bool("print") {
			fmt.Print(db.Schema())
			return nil
		}

		cfg, err := loadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		pool, err := db.Connect(c.Context, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(c.Context, pool); err != nil {
			return err
		}

		logrus.Info("schema applied")
		return nil
	},
}
