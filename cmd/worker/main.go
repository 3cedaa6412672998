package main

import (
	"catalog/app/product"
	"catalog/infra/postgres"
	"catalog/infra/rabbitmq"
	"catalog/internal/consumers"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/logger"
	"catalog/pkg/notification"
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	zap.L().Info("Catalog Worker Service starting...",
		zap.String("serviceName", appConfig.ServiceName),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	gormDB, err := postgres.OpenGorm(pgRepository.DB())
	if err != nil {
		zap.L().Fatal("Failed to open gorm", zap.Error(err))
	}

	// Final delivery step for low stock alerts queued by the API.
	sender := notification.NewLogSender(zap.L())
	products := product.NewService(
		postgres.NewProductStore(gormDB, appConfig.StoreTimeout),
		notification.NewDispatcher(sender, appConfig.LowStockThreshold),
		appConfig.LowStockThreshold,
		appConfig.ServiceName,
	)

	notificationHandler := consumers.NewNotificationEventHandler(products, sender)
	productHandler := consumers.NewProductEventHandler(zap.L())

	notificationConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.NotificationExchange,
		QueueName:      "catalog.notification.low_stock.v1",
		RoutingKeys:    []string{"notification.low_stock.v1"},
		ServiceName:    appConfig.ServiceName + "-worker",
		PrefetchCount:  10,
		WorkerPoolSize: 5,
	})
	if err != nil {
		zap.L().Fatal("Failed to create notification consumer", zap.Error(err))
	}
	defer notificationConsumer.Close()

	productConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.ProductExchange,
		QueueName:      "catalog.product.audit.v1",
		RoutingKeys:    []string{"product.*.v1"},
		ServiceName:    appConfig.ServiceName + "-audit",
		PrefetchCount:  10,
		WorkerPoolSize: 2,
	})
	if err != nil {
		zap.L().Fatal("Failed to create product consumer", zap.Error(err))
	}
	defer productConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	consume := func(name string, consumer *rabbitmq.Consumer, handler rabbitmq.EventHandler) {
		zap.L().Info("Starting consumer...", zap.String("consumer", name))
		if err := consumer.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Consumer error", zap.String("consumer", name), zap.Error(err))
		}
	}

	var wg sync.WaitGroup
	wg.Go(func() { consume("notification", notificationConsumer, notificationHandler.HandleEvent) })
	wg.Go(func() { consume("product", productConsumer, productHandler.HandleEvent) })

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := pgRepository.GetPoolStats()
				zap.L().Info("Connection pool stats",
					zap.Int("max_open", stats["max_open_connections"].(int)),
					zap.Int("open", stats["open_connections"].(int)),
					zap.Int("in_use", stats["in_use"].(int)),
					zap.Int("idle", stats["idle"].(int)),
					zap.Int64("wait_count", stats["wait_count"].(int64)),
					zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
				)
			}
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("notificationExchange", events.NotificationExchange),
		zap.String("productExchange", events.ProductExchange),
	)

	<-sigChan
	zap.L().Info("Shutdown signal received, stopping worker service...")
	cancel()
	wg.Wait()

	zap.L().Info("Worker service stopped gracefully")
}
