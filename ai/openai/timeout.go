package openai

import (
	"context"
	"time"
)

// timeoutFunc derives a bounded child context for one external call.
type timeoutFunc func(context.Context) (context.Context, context.CancelFunc)

// boundedBy returns a timeoutFunc applying d. A non-positive d leaves the
// parent context untouched.
func boundedBy(d time.Duration) timeoutFunc {
	return func(ctx context.Context) (context.Context, context.CancelFunc) {
		if d <= 0 {
			return ctx, func() {}
		}
		return context.WithTimeout(ctx, d)
	}
}
