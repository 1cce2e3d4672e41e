// Package retry provides a bounded-retry wrapper for operations that can
// fail or come back empty-handed.
package retry

import "context"

// Operation is a fallible attempt at producing a value. ok=false means the
// attempt completed but produced nothing usable; that is not an error, it is
// a reason to try again.
type Operation[T any] func(ctx context.Context) (T, bool, error)

// Config configures a retry run.
type Config[T any] struct {
	// Op runs on the first attempt.
	Op Operation[T]

	// RetryOp runs on attempts after the first. Defaults to Op.
	RetryOp Operation[T]

	// MaxAttempts bounds the total number of attempts, first included.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// ShouldRetry optionally rejects a produced value, turning a successful
	// attempt into a retry. Nil accepts every produced value.
	ShouldRetry func(T) bool

	// OnRetry is invoked before each attempt after the first, with the
	// 1-based attempt number about to run.
	OnRetry func(attempt int)
}

// Execute runs Op, then RetryOp, until a usable value is produced or
// MaxAttempts is exhausted.
//
// An attempt triggers a retry when it returns an error, returns ok=false, or
// its value is rejected by ShouldRetry. Errors from intermediate attempts
// are swallowed; only an error from the final attempt is returned.
// Exhaustion without a usable value returns ok=false and a nil error;
// callers decide whether that is fatal.
func Execute[T any](ctx context.Context, cfg Config[T]) (T, bool, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	retryOp := cfg.RetryOp
	if retryOp == nil {
		retryOp = cfg.Op
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		op := cfg.Op
		if attempt > 1 {
			op = retryOp
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt)
			}
		}

		value, ok, err := op(ctx)
		if err != nil {
			if attempt == attempts {
				return zero, false, err
			}
			continue
		}
		if !ok {
			continue
		}
		if cfg.ShouldRetry != nil && cfg.ShouldRetry(value) {
			continue
		}
		return value, true, nil
	}

	return zero, false, nil
}
