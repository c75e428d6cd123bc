// ABOUTME: Backoff schedule for transactions that hit the writer lock
// ABOUTME: Bounded so a full retry cycle fits inside the busy_timeout window
package sqlite

import (
	"math/rand/v2"
	"time"
)

// busyBackoff returns the sleep before retry attempt n of a transaction
// that lost the writer lock. The delay doubles per attempt starting from
// busyRetryDelay, with ±25% jitter so contending writers don't wake in
// lockstep. Attempt 0 is the initial try and sleeps nothing.
func busyBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := busyRetryDelay << attempt

	jitterRange := int64(delay) / 2
	if jitterRange > 0 {
		jitter := rand.Int64N(jitterRange) - jitterRange/2
		delay += time.Duration(jitter)
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}
