package retry

import (
	"context"
	"math/rand"
	"time"
)

// Backoff gives the pause before the retry that follows failed attempt n
type Backoff interface {
	Delay(attempt int) time.Duration
}

// Doubling waits Base after the first failure and twice as long after
// each further one, never more than Max. Jitter spreads every pause by up
// to that fraction either way.
type Doubling struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

// NavigationBackoff is the pause schedule between attempts to load one
// artwork page
func NavigationBackoff(base, max time.Duration) Doubling {
	return Doubling{Base: base, Max: max, Jitter: 0.1}
}

// Delay implements Backoff
func (d Doubling) Delay(attempt int) time.Duration {
	if attempt <= 0 || d.Base <= 0 {
		return 0
	}

	delay := d.Base
	for i := 1; i < attempt; i++ {
		if d.Max > 0 && delay >= d.Max {
			break
		}
		delay *= 2
	}
	if d.Max > 0 && delay > d.Max {
		delay = d.Max
	}

	if d.Jitter > 0 {
		spread := float64(delay) * d.Jitter
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	return delay
}

// Sleep pauses for delay unless ctx ends first
func Sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
