package dynamodb

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/aws/smithy-go"
)

// transientErrorCodes are the store error codes a bulk write retries. Anything else propagates.
var transientErrorCodes = []string{
	"ProvisionedThroughputExceededException",
	"ThrottlingException",
	"InternalServerError",
	"RequestLimitExceeded",
}

// RetryConfig defines the backoff of the bulk path
type RetryConfig struct {
	MaxRetries    int           // Retries per chunk after the first attempt
	BaseDelay     time.Duration // Delay before the first retry
	MaxDelay      time.Duration // Upper bound of any single delay
	BackoffFactor float64       // Exponential backoff multiplier
	JitterFactor  float64       // Fraction of the delay randomised either way
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    5,
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.5,
	}
}

// isTransientError reports whether err carries one of the allow-listed error codes
func isTransientError(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return slices.Contains(transientErrorCodes, apiErr.ErrorCode())
}

// delay returns the wait before retry number attempt (0-based)
func (c RetryConfig) delay(attempt int) time.Duration {
	backoff := float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt))
	jitter := backoff * c.JitterFactor * (rand.Float64() - 0.5) * 2
	d := time.Duration(backoff + jitter)
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	if d < 0 {
		d = 0
	}
	return d
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
