package main

import (
	"catalog/app/auth"
	"catalog/app/category"
	"catalog/app/product"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/listeners"
	"catalog/internal/router"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logger"
	"catalog/pkg/notification"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	zap.L().Info("Catalog API starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("env", appConfig.AppEnv),
	)

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	gormDB, err := postgres.OpenGorm(pgRepository.DB())
	if err != nil {
		zap.L().Fatal("Failed to open gorm", zap.Error(err))
	}

	dispatcher := events.NewDispatcher()
	dispatcher.Listen(events.Wildcard, listeners.LogProductChange(zap.L()))

	deps := router.Deps{
		Database: pgRepository,
		Events:   dispatcher,
	}

	// Without a broker notifications go straight to the log.
	var sender notification.Sender = notification.NewLogSender(zap.L())
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()

		sender = notification.NewBrokerSender(publisher, appConfig.ServiceName)
		dispatcher.Listen(events.Wildcard, listeners.ForwardTo(publisher, events.ProductExchange, appConfig.ServiceName))
		deps.Broker = publisher
	} else {
		zap.L().Warn("RABBITMQ_URL not set, events stay in process")
	}

	notifier := notification.NewDispatcher(sender, appConfig.LowStockThreshold)

	deps.Auth = auth.NewService(postgres.NewAuthRepository(pgRepository, appConfig.StoreTimeout))
	deps.Categories = category.NewService(postgres.NewCategoryStore(gormDB, appConfig.StoreTimeout))
	deps.Products = product.NewService(postgres.NewProductStore(gormDB, appConfig.StoreTimeout), notifier, appConfig.LowStockThreshold, appConfig.ServiceName)

	app := router.New(deps)

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
