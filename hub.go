package herald

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/heraldlib/herald/hkey"
	"github.com/heraldlib/herald/internal/htrace"
)

// HubConfig is the configuration to pass to [NewHub].
type HubConfig struct {
	// If set, the hub records spans for background work
	// it runs on behalf of callers, such as [RunChannelToHub].
	// If nil, tracing is disabled through a no-op provider.
	TracerProvider htrace.TracerProvider
}

// Hub is the shared registry and dispatcher
// connecting publishers to subscribers.
//
// Because Go methods cannot introduce type parameters,
// the typed operations on a hub are package-level functions:
// [Subscribe], [Register], [Publish], and [RunChannelToHub].
//
// A key becomes known to a hub on its first [Subscribe] or [Register],
// and it stays known after its last subscription is canceled.
// [Publish] under a known key with no live subscriptions is a no-op;
// under a key the hub has never seen, it panics.
//
// All hub operations are safe for concurrent use.
type Hub struct {
	log *slog.Logger

	tracer htrace.Tracer

	mu     sync.Mutex
	keys   map[hkey.ID]*keyState
	closed bool

	// Incremented under mu to issue unique subscription IDs.
	nextSubID uint64
}

// keyState is the per-key registry entry:
// the ordered list of live subscriber entries for one key.
//
// A keyState outlives its subscribers.
// Once a key is known to the hub it stays known,
// so that publishing after the last cancellation
// is a no-op rather than a panic.
type keyState struct {
	subs []subscriberEntry
}

// subscriberEntry is one subscription's registration under a key.
//
// The deliver closure appends to the subscription's typed buffer;
// it is the only place inside the hub where the payload type is known.
// The stop closure terminates the subscription, and is idempotent.
type subscriberEntry struct {
	id      uint64
	deliver func(any)
	stop    func()
}

// NewHub returns a hub ready for use.
//
// If log is nil, the hub's log output is discarded.
func NewHub(log *slog.Logger, cfg HubConfig) *Hub {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = htrace.NopTracerProvider()
	}

	return &Hub{
		log:    log,
		tracer: tp.Tracer("herald"),
		keys:   make(map[hkey.ID]*keyState),
	}
}

// Close permanently tears down the hub.
//
// Every live subscription is canceled:
// values delivered before Close remain readable through
// [Subscription.Next], and once drained, Next reports [ErrCanceled].
// After Close, [Publish] is a no-op
// and [Subscribe] returns an already-canceled subscription.
//
// Close is idempotent and safe to call concurrently
// with any other hub operation.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	nKeys := len(h.keys)
	nSubs := 0
	for _, ks := range h.keys {
		for _, e := range ks.subs {
			e.stop()
		}
		nSubs += len(ks.subs)
	}
	h.keys = nil

	h.log.Info("Hub closed", "keys", nKeys, "subs", nSubs)
}

// KeyCount reports how many keys are known to the hub,
// whether or not they currently have subscriptions.
func (h *Hub) KeyCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.keys)
}

// SubscriberCount reports the number of live subscriptions
// under the key with the given ID.
// A key the hub has never seen reports zero.
func (h *Hub) SubscriberCount(id hkey.ID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	ks := h.keys[id]
	if ks == nil {
		return 0
	}
	return len(ks.subs)
}

// ensureKey records the key with the given ID as known to the hub,
// reporting false if the hub is already closed.
func (h *Hub) ensureKey(id hkey.ID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	if _, have := h.keys[id]; !have {
		h.keys[id] = new(keyState)
	}
	return true
}

// addSubscriber registers a new subscriber entry under the key
// with the given ID, creating the key's state if needed,
// and returns the entry's unique subscription ID.
// It reports false if the hub is already closed,
// in which case nothing was registered.
func (h *Hub) addSubscriber(
	id hkey.ID, deliver func(any), stop func(),
) (subID uint64, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, false
	}

	ks := h.keys[id]
	if ks == nil {
		ks = new(keyState)
		h.keys[id] = ks
	}

	h.nextSubID++
	subID = h.nextSubID

	ks.subs = append(ks.subs, subscriberEntry{
		id:      subID,
		deliver: deliver,
		stop:    stop,
	})

	return subID, true
}

// removeSubscriber deletes the entry with the given subscription ID
// from the key with the given ID.
// The key itself stays known to the hub.
// Removing an entry that is already gone is a no-op.
func (h *Hub) removeSubscriber(id hkey.ID, subID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ks := h.keys[id]
	if ks == nil {
		return
	}

	for i, e := range ks.subs {
		if e.id != subID {
			continue
		}

		ks.subs = slices.Delete(ks.subs, i, i+1)
		h.log.Debug("Unsubscribed", "key", id, "sub_id", subID)
		return
	}
}

// publish hands v to every subscriber entry under the key
// with the given ID, in registration order,
// and reports how many entries received it.
//
// known is false only when the hub is open
// and the key has never been seen, which is the caller's bug.
// A closed hub accepts and drops the value (open=false).
func (h *Hub) publish(id hkey.ID, v any) (n int, known, open bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, true, false
	}

	ks := h.keys[id]
	if ks == nil {
		return 0, false, true
	}

	for _, e := range ks.subs {
		e.deliver(v)
	}
	return len(ks.subs), true, true
}
