package htest

import (
	"testing"
	"time"
)

// How long the Soon helpers are willing to wait.
// Generous, because a correct system only ever waits
// a tiny fraction of this.
const soonTimeout = 5 * time.Second

// ReceiveSoon returns a value received from ch,
// calling t.Fatalf if the receive does not complete quickly.
func ReceiveSoon[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(soonTimeout):
		t.Fatalf("did not receive from channel within %s", soonTimeout)
		panic("unreachable after t.Fatalf")
	}
}

// SendSoon sends v to ch,
// calling t.Fatalf if the send does not complete quickly.
func SendSoon[T any](t *testing.T, ch chan<- T, v T) {
	t.Helper()

	select {
	case ch <- v:
		// Okay.
	case <-time.After(soonTimeout):
		t.Fatalf("could not send to channel within %s", soonTimeout)
	}
}

// IsSending asserts that a receive from ch completes immediately,
// which for a signal channel means it has been closed
// or has a buffered value.
func IsSending[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		// Okay.
	default:
		t.Fatal("expected to receive from channel, but receive would have blocked")
	}
}

// NotSending asserts that a receive from ch would block.
func NotSending[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		t.Fatal("expected receive from channel to block, but it completed")
	default:
		// Okay.
	}
}
