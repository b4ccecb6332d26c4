package herald

import (
	"context"
	"errors"
	"fmt"

	"github.com/heraldlib/herald/hkey"
	"github.com/heraldlib/herald/internal/htrace"
)

// Publish delivers value to every subscription currently registered
// under key, in subscription order.
//
// Delivery is a buffer hand-off:
// Publish never waits on consumers,
// and a slow consumer cannot delay the others.
// There is no acknowledgement and no return value.
//
// Publishing under a key the hub has never seen panics.
// A publish that no subscriber could ever observe is a wiring bug,
// and failing immediately beats dropping values silently;
// declare the key first with [Subscribe] or [Register].
// A key stays known after its last subscription is canceled,
// so publishing to it again is a no-op, not a panic.
//
// On a closed hub, Publish is a no-op.
// Publish also panics if key is the zero value.
func Publish[T any](h *Hub, key hkey.Key[T], value T) {
	if key.IsZero() {
		panic(errors.New(
			"BUG: Publish called with zero key; declare keys with hkey.New or hkey.NewNamed",
		))
	}

	n, known, open := h.publish(key.ID(), value)
	if !known {
		panic(fmt.Errorf(
			"BUG: Publish called with unknown key %s (subscribe or register it first)",
			key,
		))
	}
	if !open {
		h.log.Debug("Publish on closed hub; dropping value", "key", key)
		return
	}

	h.log.Debug("Published", "key", key, "delivered", n)
}

// RunChannelToHub starts a background goroutine that publishes
// every value received from ch under key,
// until ctx is canceled or ch is closed.
//
// The returned done channel is closed when the goroutine stops.
//
// The key must be known to the hub by the time the first value
// arrives; an unknown key panics in the background goroutine,
// exactly as [Publish] would.
func RunChannelToHub[T any](
	ctx context.Context,
	h *Hub,
	key hkey.Key[T],
	ch <-chan T,
) <-chan struct{} {
	done := make(chan struct{})

	go publishFromChannel(ctx, h, key, ch, done)

	return done
}

func publishFromChannel[T any](
	ctx context.Context,
	h *Hub,
	key hkey.Key[T],
	ch <-chan T,
	done chan<- struct{},
) {
	defer close(done)

	log := h.log.With("key", key)

	ctx, span := h.tracer.Start(
		ctx, "RunChannelToHub",
		htrace.WithAttributes(htrace.StringerAttr("key", key)),
	)
	defer span.End()

	n := 0
	defer func() {
		span.SetAttributes(htrace.IntAttr("published", n))
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info(
				"Channel worker stopping due to context cancellation",
				"cause", context.Cause(ctx), "published", n,
			)
			return

		case v, ok := <-ch:
			if !ok {
				log.Info(
					"Channel worker stopping due to closed channel",
					"published", n,
				)
				return
			}

			Publish(h, key, v)
			n++
		}
	}
}
