package async

import "context"

// Reporter receives failures from fire-and-forget tasks. The op argument
// names the operation for diagnostics; err is always non-nil.
type Reporter func(op string, err error)

// Fire runs fn in the background without blocking the caller. The task
// outlives the caller's context cancellation: optimistic mutations must
// reach the remote side even when the triggering UI action has completed.
// A non-nil error is handed to report; the caller never sees it.
func Fire(ctx context.Context, op string, report Reporter, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := fn(ctx); err != nil && report != nil {
			report(op, err)
		}
	}()
}
