package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "watizat",
		Usage: "Help directory and community posts API for newcomers in France",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			locationsCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
