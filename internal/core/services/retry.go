package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// retry runs fn up to policy.Attempts() times, waiting policy.Wait between
// attempts. Requests the remote side rejected as malformed are not retried.
func retry[T any](ctx context.Context, policy domain.RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= policy.Attempts(); attempt++ {
		result, err = fn(ctx)
		if err == nil || !retryable(err) || attempt == policy.Attempts() {
			return result, err
		}

		timer := time.NewTimer(policy.Wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return result, err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.IsBadRequest() && remote.StatusCode != 429 {
		return false
	}
	return !errors.Is(err, domain.ErrOracleDisabled)
}
