package store

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error kinds surfaced by the store and the data service. Callers branch
// on these instead of misreading an empty result as "no data":
//
//   - ErrNotFound: the referenced document does not exist (stale id).
//   - ErrUnavailable: the backend is unreachable or timed out; the
//     operation is retryable and writes may fall back to the offline queue.
//   - ErrInvalidState: the operation conflicts with the current state of
//     the data (e.g. a trip is already active) and must surface to the
//     user for correction.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrInvalidState = errors.New("invalid state")
)

// IsRetryable reports whether err should trigger an offline-queue
// fallback or a sync backoff rather than surfacing to the user.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// mapError folds Firestore/gRPC errors into the shared error kinds.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return ErrUnavailable
	}
	return err
}
