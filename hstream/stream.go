package hstream

import "context"

// Stream is a linked list of event-driven values.
// The list has a single writer and any number of readers,
// and each reader consumes the list at its own pace.
//
// A reader waits on the Ready channel of the node it holds;
// once Ready is closed, Val may be read and Next followed.
//
// If a reader stops consuming without releasing its node,
// every value appended from that node onward stays reachable,
// which is a memory leak.
type Stream[T any] struct {
	Ready chan struct{}
	Next  *Stream[T]
	Val   T
}

// New returns an initialized, empty stream node.
func New[T any]() *Stream[T] {
	return &Stream[T]{
		Ready: make(chan struct{}),
	}
}

// Append assigns s's value and initializes s.Next,
// then closes s.Ready so that waiting readers
// know s.Val is safe to read.
//
// Each node accepts exactly one value;
// if Append is called twice for the same s, Append panics.
func (s *Stream[T]) Append(v T) {
	s.Val = v
	s.Next = New[T]()
	close(s.Ready)
}

// FromChannel starts a background goroutine that reads values from ch
// and appends them to the returned stream.
//
// The returned done channel is closed when the goroutine stops,
// which happens on context cancellation or when ch is closed.
func FromChannel[T any](ctx context.Context, ch <-chan T) (
	s *Stream[T], done <-chan struct{},
) {
	s = New[T]()
	doneCh := make(chan struct{})

	go appendFromChannel(ctx, ch, s, doneCh)

	return s, doneCh
}

func appendFromChannel[T any](
	ctx context.Context,
	ch <-chan T,
	s *Stream[T],
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case v, ok := <-ch:
			if !ok {
				return
			}
			s.Append(v)
			s = s.Next
		}
	}
}
