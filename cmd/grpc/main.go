package main

import (
	"catalog/app/product"
	"catalog/infra/grpc"
	"catalog/infra/postgres"
	"catalog/pkg/config"
	"catalog/pkg/logger"
	"catalog/pkg/notification"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	zap.L().Info("Catalog gRPC Service starting...")

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	gormDB, err := postgres.OpenGorm(pgRepository.DB())
	if err != nil {
		zap.L().Fatal("Failed to open gorm", zap.Error(err))
	}

	// Lookups never write, so notifications are only ever logged here.
	products := product.NewService(
		postgres.NewProductStore(gormDB, appConfig.StoreTimeout),
		notification.NewDispatcher(notification.NewLogSender(zap.L()), appConfig.LowStockThreshold),
		appConfig.LowStockThreshold,
		appConfig.ServiceName,
	)

	grpc.RegisterProductLookupServer(grpcServer.GetGRPCServer(), grpc.NewProductLookupService(products))
	grpcServer.SetServing(grpc.ProductLookupServiceName, true)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.SetServing(grpc.ProductLookupServiceName, false)
	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
