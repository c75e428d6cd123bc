// ABOUTME: Tests for the writer-lock backoff schedule
// ABOUTME: Checks per-attempt bounds and the total-wait budget
package sqlite

import (
	"testing"
	"time"
)

func TestBusyBackoffInitialAttemptSleepsNothing(t *testing.T) {
	if d := busyBackoff(0); d != 0 {
		t.Errorf("attempt 0 should not sleep, got %v", d)
	}
	if d := busyBackoff(-1); d != 0 {
		t.Errorf("negative attempt should not sleep, got %v", d)
	}
}

func TestBusyBackoffDoublesWithinJitterBounds(t *testing.T) {
	for attempt := 1; attempt <= busyRetries; attempt++ {
		base := busyRetryDelay << attempt
		minDelay := base - base/4
		maxDelay := base + base/4

		for i := 0; i < 50; i++ {
			d := busyBackoff(attempt)
			if d < minDelay || d > maxDelay {
				t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, d, minDelay, maxDelay)
			}
		}
	}
}

func TestBusyBackoffJitterVaries(t *testing.T) {
	seen := make(map[time.Duration]bool)
	for i := 0; i < 100; i++ {
		seen[busyBackoff(3)] = true
	}
	if len(seen) < 2 {
		t.Error("expected jitter to produce varying delays, got identical values")
	}
}

// The driver-level busy_timeout is 5 seconds. The full retry cycle must
// sleep less than that in the worst case, otherwise the application
// loop, not the pragma, becomes the effective lock wait.
func TestBusyBackoffTotalStaysUnderBusyTimeout(t *testing.T) {
	const busyTimeout = 5 * time.Second

	var worstCase time.Duration
	for attempt := 1; attempt <= busyRetries; attempt++ {
		base := busyRetryDelay << attempt
		worstCase += base + base/4
	}

	if worstCase >= busyTimeout {
		t.Errorf("worst-case retry sleep %v must stay under busy_timeout %v", worstCase, busyTimeout)
	}
}
