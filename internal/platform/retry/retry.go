// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

// Package retry provides a small combinator for bounded retry with a fixed
// inter-attempt delay.
//
// # Architecture
//
// Call sites that talk to flaky collaborators (claims refresh, external
// reads) wrap the operation in [Do] instead of hand-rolling loops. The
// combinator is deliberately minimal: fixed delay, bounded attempts,
// context-aware sleeping.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Do runs operation up to attempts times, sleeping delay between attempts.
//
// # Semantics
//
//   - The first success wins and its nil error is returned.
//   - Context cancellation interrupts the delay and returns ctx.Err().
//   - When every attempt fails, the last error is returned wrapped, so the
//     caller can distinguish "all retries exhausted" from an early abort.
func Do(ctx context.Context, attempts int, delay time.Duration, operation func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = operation(); lastErr == nil {
			return nil
		}

		// No sleep after the final attempt.
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("retry: all %d attempts failed: %w", attempts, lastErr)
}
