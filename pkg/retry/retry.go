// Package retry re-runs a failing call with a delay between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type Config struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // delay grows linearly with the attempt number
}

// linearBackOff waits step, 2*step, 3*step...
type linearBackOff struct {
	step time.Duration
	n    int64
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.n++
	return time.Duration(l.n) * l.step
}

func (l *linearBackOff) Reset() { l.n = 0 }

func (c Config) backOff() backoff.BackOff {
	if c.Backoff {
		return &linearBackOff{step: c.Delay}
	}
	return backoff.NewConstantBackOff(c.Delay)
}

// Do calls fn until it succeeds, returns a backoff.Permanent error, the attempts are
// exhausted or ctx is done.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, fn(ctx)
	},
		backoff.WithBackOff(cfg.backOff()),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
	)
	if err == nil {
		return nil
	}
	var p *backoff.PermanentError
	switch {
	case errors.As(err, &p):
		return p.Err
	case ctx.Err() != nil:
		return ctx.Err()
	case attempts >= cfg.MaxAttempts:
		return fmt.Errorf("failed after %d attempts: %w", attempts, err)
	}
	return err
}
