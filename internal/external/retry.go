package external

import (
	"context"
	"time"
)

// Retry calls fn once, then once more after each delay, until it succeeds or ctx ends.
func Retry(ctx context.Context, delays []time.Duration, fn func(context.Context) error) error {
	err := fn(ctx)
	for _, delay := range delays {
		if err == nil || ctx.Err() != nil {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		err = fn(ctx)
	}
	return err
}
