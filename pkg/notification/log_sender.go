package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogSender delivers notifications by writing them to the log. It stands in
// for mail delivery when no broker is configured, and is what the worker
// uses as its final delivery step.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendLowStock(ctx context.Context, msg LowStockMessage) error {
	s.logger.Info("Low stock notification delivered",
		zap.Uint64("recipientId", msg.Recipient.ID),
		zap.String("recipientEmail", msg.Recipient.Email),
		zap.String("subject", msg.Subject()),
		zap.String("body", msg.Body()),
	)
	return nil
}
