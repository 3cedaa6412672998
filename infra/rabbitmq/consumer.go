package rabbitmq

import (
	"catalog/pkg/events"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPrefetchCount  = 10
	defaultHandlerTimeout = 30 * time.Second
)

// EventHandler is a function that processes events
type EventHandler func(ctx context.Context, event *events.Event) error

// Consumer represents a RabbitMQ consumer
type Consumer struct {
	conn           *amqp.Connection
	channel        *amqp.Channel
	queueName      string
	serviceName    string
	workers        int
	handlerTimeout time.Duration
}

// ConsumerConfig holds configuration for setting up a consumer
type ConsumerConfig struct {
	Exchange       string        // e.g., "catalog.notification"
	QueueName      string        // e.g., "catalog.notification.low_stock.v1"
	RoutingKeys    []string      // e.g., ["notification.low_stock.v1"]
	ServiceName    string        // e.g., "catalog-worker"
	PrefetchCount  int           // Number of messages to prefetch (0 = 10)
	WorkerPoolSize int           // Number of concurrent handlers (0 = 1)
	HandlerTimeout time.Duration // Per message deadline (0 = 30s)
}

// NewConsumer declares the exchange, the queue and its dead letter pair, then
// binds them for every routing key.
func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupTopology(channel, config); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
		zap.Int("workers", max(config.WorkerPoolSize, 1)),
	)

	return &Consumer{
		conn:           conn,
		channel:        channel,
		queueName:      config.QueueName,
		serviceName:    config.ServiceName,
		workers:        max(config.WorkerPoolSize, 1),
		handlerTimeout: cmpDuration(config.HandlerTimeout, defaultHandlerTimeout),
	}, nil
}

func setupTopology(channel *amqp.Channel, config ConsumerConfig) error {
	prefetchCount := config.PrefetchCount
	if prefetchCount == 0 {
		prefetchCount = defaultPrefetchCount
	}
	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopicExchange(channel, config.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	dlxName := config.Exchange + ".dlx"
	if err := declareTopicExchange(channel, dlxName); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	queue, err := channel.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-dead-letter-exchange": dlxName},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	dlqName := config.QueueName + ".dlq"
	if _, err := channel.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, routingKey := range config.RoutingKeys {
		if err := channel.QueueBind(dlqName, routingKey, dlxName, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := channel.QueueBind(queue.Name, routingKey, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return nil
}

// Consume hands deliveries to a fixed pool of workers until ctx is cancelled
// or the broker closes the channel. In-flight messages finish first.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // auto-ack (false = manual ack)
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.queueName), zap.Int("workers", c.workers))

	return c.run(ctx, msgs, handler)
}

func (c *Consumer) run(ctx context.Context, msgs <-chan amqp.Delivery, handler EventHandler) error {
	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)

	for range c.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					errOnce.Do(func() { runErr = ctx.Err() })
					return
				case msg, ok := <-msgs:
					if !ok {
						errOnce.Do(func() { runErr = errors.New("message channel closed") })
						return
					}
					c.handleMessage(ctx, msg, handler)
				}
			}
		}()
	}

	wg.Wait()

	if errors.Is(runErr, context.Canceled) {
		zap.L().Info("Consumer context cancelled, stopping...")
	} else {
		zap.L().Warn("Consumer stopped", zap.Error(runErr))
	}

	return runErr
}

// handleMessage processes a single message. Malformed and failed messages are
// rejected without requeue so they end up in the dead letter queue.
func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers["x-trace-id"].(string)
	correlationID, _ := msg.Headers["x-correlation-id"].(string)
	service, _ := msg.Headers["x-service"].(string)

	zap.L().Info("Received message",
		zap.String("queue", c.queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("correlationId", correlationID),
		zap.String("sourceService", service),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		zap.L().Error("Failed to unmarshal event",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		_ = msg.Nack(false, false)
		return
	}

	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.handlerTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		zap.L().Error("Failed to process event",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.String("traceId", traceID),
		)
		_ = msg.Nack(false, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		zap.L().Error("Failed to acknowledge message",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		return
	}

	zap.L().Info("Successfully processed event",
		zap.String("event", event.Event),
		zap.String("traceId", traceID),
	)
}

// Close closes the consumer connection
func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}

func cmpDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
