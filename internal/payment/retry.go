package payment

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

// retryOperation retries an operation with exponential backoff, but only
// while it keeps failing with ErrFacilitatorUnavailable. Definitive
// rejections come back immediately; verification is idempotent for a given
// proof fingerprint, so a retried attempt can never double-charge.
func retryOperation(ctx context.Context, config RetryConfig, logger *logrus.Logger, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if !errors.Is(lastErr, ErrFacilitatorUnavailable) {
			return lastErr
		}

		if attempt == config.MaxRetries {
			break
		}

		delay := time.Duration(float64(config.BaseDelay) * math.Pow(2, float64(attempt)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		logger.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay,
			"error":   lastErr.Error(),
		}).Warn("Retrying facilitator operation")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}
