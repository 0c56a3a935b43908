// internal/common/retry/retry.go
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	apperrors "email-ledger/internal/common/errors"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/common/metrics"
)

// Config bounds a retried operation. Every external call in the pipeline runs
// under the same helper so the retry shape is defined in exactly one place.
type Config struct {
	MaxAttempts    int           // total attempts, including the first
	InitialBackoff time.Duration // first delay, doubled per attempt with jitter
	AttemptTimeout time.Duration // deadline applied to each attempt independently
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 30 * time.Second
	}
	return c
}

// Do runs op until it succeeds, the attempt ceiling is reached, or op returns
// a non-retryable error. Each attempt gets its own timeout; backoff between
// attempts is exponential with 20% jitter. The error returned is the one from
// the final attempt.
func Do(ctx context.Context, cfg Config, log logger.Logger, operation string, op func(ctx context.Context) error) error {
	cfg = cfg.withDefaults()

	backoff := retry.NewExponential(cfg.InitialBackoff)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithMaxRetries(uint64(cfg.MaxAttempts-1), backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(attemptCtx context.Context) error {
		attempt++

		callCtx, cancel := context.WithTimeout(attemptCtx, cfg.AttemptTimeout)
		defer cancel()

		err := op(callCtx)
		if err == nil {
			return nil
		}

		if !apperrors.IsRetryable(err) {
			log.Error(operation+" failed with non-retryable error", map[string]interface{}{
				"attempt":   attempt,
				"errorCode": apperrors.CodeOf(err),
				"error":     err.Error(),
			})
			return err
		}

		if attempt < cfg.MaxAttempts {
			metrics.StageRetries.WithLabelValues(operation).Inc()
			log.Warn(operation+" failed, retrying", map[string]interface{}{
				"attempt":     attempt,
				"maxAttempts": cfg.MaxAttempts,
				"errorCode":   apperrors.CodeOf(err),
				"error":       err.Error(),
			})
		}
		return retry.RetryableError(err)
	})
}
