package graph

import (
	"context"

	"github.com/go-kratos/kit/retry"
)

// Retry returns a middleware that retries node handlers.
//
// Parameters:
//
//	attempts: The total number of attempts to execute the handler, including the initial attempt.
//	          For example, attempts=3 means up to 3 tries (1 initial + 2 retries).
//	opts:     Optional configuration for retry behavior. See retry.Option (from github.com/go-kratos/kit/retry) for details.
//
// The same state value is passed to the handler on each attempt. If every attempt fails,
// the last error is returned.
//
// Example usage:
//
//	mw := Retry[State](5,
//	    retry.WithRetryable(func(err error) bool {
//	        return errors.Is(err, ErrTemporary)
//	    }),
//	)
func Retry[S any](attempts int, opts ...retry.Option) Middleware[S] {
	r := retry.New(attempts, opts...)
	return func(next Handler[S]) Handler[S] {
		return func(ctx context.Context, input S) (S, error) {
			var (
				err    error
				output S
			)
			if err = r.Do(ctx, func(ctx context.Context) error {
				output, err = next(ctx, cloneState(input))
				return err
			}); err != nil {
				var zero S
				return zero, err
			}
			return output, nil
		}
	}
}
