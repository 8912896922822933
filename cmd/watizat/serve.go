package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"watizat/internal/auth"
	"watizat/internal/db"
	"watizat/internal/server"
	"watizat/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP API",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadDatabaseConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(config)
	if err != nil {
		return err
	}

	if config.CognitoClientID == "" || config.CognitoIssuerURL == "" {
		return fmt.Errorf("set COGNITO_CLIENT_ID and COGNITO_ISSUER_URL")
	}

	locations, err := loadDirectory(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("failed to load help locations: %w", err)
	}
	logger.WithField("locations", locations.Len()).Info("help location directory ready")

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognito := auth.NewCognito(cognitoidentityprovider.NewFromConfig(awsConfig), config.CognitoClientID)

	verifier, err := auth.NewJWKSVerifier(ctx, config.CognitoIssuerURL)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	srv, err := server.New(
		config,
		logger,
		locations,
		store.NewPostRepository(pool),
		store.NewUserRepository(pool),
		cognito,
		verifier,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
