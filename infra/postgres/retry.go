package postgres

import (
	"catalog/domain"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const maxAttempts = 2

// PostgreSQL error classes worth a second attempt: connection exception,
// transaction rollback, insufficient resources, operator intervention.
var transientClasses = map[pq.ErrorClass]struct{}{
	"08": {},
	"40": {},
	"53": {},
	"57": {},
}

// withRetry runs op under timeout and retries it once on a transient error.
// When every attempt failed transiently the error wraps domain.ErrUnavailable.
func withRetry(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = runWithTimeout(ctx, timeout, op)
		if err == nil || !isTransient(err) {
			return err
		}

		if ctx.Err() != nil {
			return err
		}

		if attempt < maxAttempts {
			zap.L().Warn("Transient store error, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}

func runWithTimeout(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return op(ctx)
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		_, ok := transientClasses[pqErr.Code.Class()]
		return ok
	}

	return false
}
