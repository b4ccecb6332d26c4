package herald

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/heraldlib/herald/hkey"
	"github.com/heraldlib/herald/hstream"
)

// Subscription is one consumer's view of the values published
// under a single key, in publish order.
//
// A Subscription is obtained from [Subscribe].
// Values are consumed one at a time with [Subscription.Next],
// or as a range-over-func sequence with [Subscription.All].
//
// Call [Subscription.Cancel] when the subscription is no longer
// needed; until then, every published value is buffered for it.
type Subscription[T any] struct {
	hub *Hub

	keyID hkey.ID
	subID uint64

	// Cursor into the per-subscription buffer.
	// Only Next advances it,
	// so Next is not safe for concurrent use with itself.
	cur *hstream.Stream[T]

	stopOnce sync.Once
	done     chan struct{}
}

// terminate closes done, exactly once.
// The hub calls this through the entry's stop closure;
// Cancel calls it directly.
func (s *Subscription[T]) terminate() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// Cancel deregisters the subscription,
// so that later publishes no longer reach it.
//
// Values delivered before Cancel remain readable through [Subscription.Next];
// once they are drained, Next reports [ErrCanceled].
// Cancel is idempotent and safe to call concurrently
// with any hub operation, including an in-flight [Publish] on the same key.
func (s *Subscription[T]) Cancel() {
	s.hub.removeSubscriber(s.keyID, s.subID)
	s.terminate()
}

// Next blocks until a value is available and returns it.
// Values arrive in publish order, one per call.
//
// A value already in the buffer is returned immediately;
// ctx is consulted only when Next has to wait.
// If ctx ends while waiting,
// Next returns a wrapped [context.Cause] of ctx.
// After the subscription is canceled, directly or by [Hub.Close],
// and its remaining buffered values are drained,
// Next returns [ErrCanceled].
//
// Next is safe to call concurrently with hub operations,
// but not with another Next on the same subscription.
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-s.cur.Ready:
		v := s.cur.Val
		s.cur = s.cur.Next
		return v, nil
	default:
		// Nothing buffered; wait.
	}

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf(
			"context finished while awaiting value: %w",
			context.Cause(ctx),
		)

	case <-s.done:
		// Entry removal happens before done is closed,
		// so the buffer can no longer grow:
		// drain what arrived ahead of the cancellation, then report.
		select {
		case <-s.cur.Ready:
			v := s.cur.Val
			s.cur = s.cur.Next
			return v, nil
		default:
			return zero, ErrCanceled
		}

	case <-s.cur.Ready:
		v := s.cur.Val
		s.cur = s.cur.Next
		return v, nil
	}
}

// All returns the subscription's remaining values
// as a range-over-func sequence.
//
// The sequence ends when ctx ends
// or when the subscription is canceled and its buffer drained.
// Breaking out of the range does not cancel the subscription;
// consumption may resume with [Subscription.Next] or another All.
// To observe why the sequence stopped, use Next directly.
func (s *Subscription[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := s.Next(ctx)
			if err != nil {
				return
			}

			if !yield(v) {
				return
			}
		}
	}
}
