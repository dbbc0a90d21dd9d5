package chain

import (
	"context"
	"errors"
	"time"
)

// FirstSuccess tries each candidate in order and returns the first successful
// result together with the winning candidate's index. Each attempt runs under
// its own timeout so a hanging candidate never blocks the rest of the list.
// Used for RPC endpoint fallback and for V3 fee-tier probing.
func FirstSuccess[C, R any](ctx context.Context, candidates []C, timeout time.Duration, call func(ctx context.Context, candidate C) (R, error)) (R, int, error) {
	var zero R
	var errs []error
	for i, candidate := range candidates {
		if ctx.Err() != nil {
			return zero, -1, ctx.Err()
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := call(attemptCtx, candidate)
		cancel()
		if err == nil {
			return result, i, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return zero, -1, errors.New("no candidates to try")
	}
	return zero, -1, errors.Join(errs...)
}
