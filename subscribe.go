package herald

import (
	"errors"

	"github.com/heraldlib/herald/hkey"
	"github.com/heraldlib/herald/hstream"
)

// Subscribe registers a new subscription for key on h and returns it.
//
// Registration is synchronous:
// once Subscribe returns, every later [Publish] under key
// reaches the subscription, until it is canceled.
// A publish concurrent with Subscribe may or may not be observed;
// subscribe first when the first value matters.
//
// Every call returns an independent subscription with its own buffer,
// no matter how many subscriptions the key already has.
//
// Subscribe never fails.
// On a closed hub, the returned subscription is already canceled,
// so its Next reports [ErrCanceled] immediately.
//
// Subscribe panics if key is the zero value.
func Subscribe[T any](h *Hub, key hkey.Key[T]) *Subscription[T] {
	if key.IsZero() {
		panic(errors.New(
			"BUG: Subscribe called with zero key; declare keys with hkey.New or hkey.NewNamed",
		))
	}

	sub := &Subscription[T]{
		hub:   h,
		keyID: key.ID(),
		done:  make(chan struct{}),
	}

	tail := hstream.New[T]()
	sub.cur = tail

	// The deliver closure is the hub's only link to the payload type.
	// It runs inside the hub's serialized domain,
	// and only ever receives values published under this same key,
	// which are always of type T.
	deliver := func(v any) {
		tail.Append(v.(T))
		tail = tail.Next
	}

	subID, ok := h.addSubscriber(key.ID(), deliver, sub.terminate)
	if !ok {
		h.log.Debug("Subscribe on closed hub; returning canceled subscription", "key", key)
		sub.terminate()
		return sub
	}
	sub.subID = subID

	h.log.Debug("Subscribed", "key", key, "sub_id", subID)

	return sub
}

// Register declares key to h without subscribing.
//
// After Register, publishing under key with no live subscriptions
// is a valid no-op rather than a panic,
// which suits publishers that start before any consumer exists.
// Register is idempotent,
// and later [Subscribe] calls on the key work as usual.
// On a closed hub, Register is a no-op.
//
// Register panics if key is the zero value.
func Register[T any](h *Hub, key hkey.Key[T]) {
	if key.IsZero() {
		panic(errors.New(
			"BUG: Register called with zero key; declare keys with hkey.New or hkey.NewNamed",
		))
	}

	if !h.ensureKey(key.ID()) {
		h.log.Debug("Register on closed hub; ignoring", "key", key)
		return
	}

	h.log.Debug("Registered key", "key", key)
}
