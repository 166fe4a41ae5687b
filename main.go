package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/expense-server/api"
	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/operator"
	"github.com/carson-networks/expense-server/internal/service"
	"github.com/carson-networks/expense-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("expense-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err = envConfig.Validate(); err != nil {
		logger.WithError(err).Fatal("config.Validate")
		return
	}
	logger.SetLevel(logging.ParseLevel(envConfig.LogLevel))

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, envConfig.OperatorQueueSize)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(dbStorage, delegator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		httpRest := api.Rest{
			Logger:     logger,
			Port:       envConfig.HTTPPort,
			CORSOrigin: envConfig.HTTPCORSOrigin,
			Service:    svc,
			Verifier:   auth.NewJWTVerifier(envConfig.AuthSecret, envConfig.AuthIssuer, envConfig.AuthAudience),
			Pinger:     dbStorage,
		}
		return httpRest.Serve(groupCtx)
	})

	if err = group.Wait(); err != nil {
		logger.WithError(err).Error("expense-server stopped with error")
		return
	}
	logger.Info("expense-server stopped")
}
