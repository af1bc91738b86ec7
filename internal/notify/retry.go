package notify

import (
	"math/rand/v2"
	"time"
)

// retryDelays are the waits before attempts 2 and 3.
var retryDelays = []time.Duration{
	1 * time.Second,
	5 * time.Second,
}

const (
	// DefaultMaxAttempts is the number of delivery attempts per notification.
	DefaultMaxAttempts = 3

	// JitterFactor is the ±percentage of jitter applied to delays.
	JitterFactor = 0.2
)

// NextRetryDelay returns the wait after failed attempt number attempt (0-indexed),
// with ±20% jitter.
func NextRetryDelay(attempt int) time.Duration {
	return jitter(baseDelay(retryDelays, attempt))
}

func baseDelay(delays []time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= len(delays) {
		attempt = len(delays) - 1
	}
	return delays[attempt]
}

func jitter(base time.Duration) time.Duration {
	jitterRange := float64(base) * JitterFactor
	return time.Duration(float64(base) + (rand.Float64()*2-1)*jitterRange)
}
