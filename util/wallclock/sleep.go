// Package wallclock provides a sleep that keeps track of wall-clock time,
// so that a system suspend does not stretch the requested duration.
//
// The flip side: a forward step of the wall clock, e.g. an NTP correction,
// ends a sleep early, at most MaxDelay after the step. A backward step
// stretches it by the size of the step.
package wallclock

import (
	"context"
	"time"
)

// MaxDelay bounds how late SleepUntil may notice that the wall clock
// passed the deadline while the monotonic timer was frozen by a suspend.
var MaxDelay = 10 * time.Second

// Sleep is SleepUntil(ctx, time.Now().Add(d)).
// A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return SleepUntil(ctx, time.Now().Add(d))
}

// The returned error is guaranteed to be the ctx.Err()
func SleepUntil(ctx context.Context, sleepUntil time.Time) error {

	// .Round(0) strips the monotonic reading, so comparisons against
	// time.Now() below use the wall clock. The monotonic clock does not
	// advance while the system is suspended; the wall clock does.
	sleepUntil = sleepUntil.Round(0)

	if err := ctx.Err(); err != nil {
		return err
	}

	// precise wake-up if the system does not suspend
	monotonicClockTimer := time.NewTimer(time.Until(sleepUntil))
	defer func() {
		if !monotonicClockTimer.Stop() {
			// non-blocking, the channel may already be drained
			select {
			case <-monotonicClockTimer.C:
			default:
			}
		}
	}()

	// periodic wall-clock check in case it does
	ticker := time.NewTicker(MaxDelay)
	defer ticker.Stop()

	for {
		select {
		case <-monotonicClockTimer.C:
			return nil
		case <-ticker.C:
			if time.Now().Before(sleepUntil) {
				// reset the monotonic timer to drop accumulated drift
				if !monotonicClockTimer.Stop() {
					select {
					case <-monotonicClockTimer.C:
					default:
					}
				}
				monotonicClockTimer.Reset(time.Until(sleepUntil))
				continue
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
