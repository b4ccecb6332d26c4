// Package hkey defines the typed keys that identify herald topics.
//
// A [Key] binds a globally unique identifier to a payload type
// at construction, so that both ends of a publish/subscribe
// relationship share a single declaration and the compiler
// enforces the payload type at every call site.
package hkey

import (
	"github.com/google/uuid"
)

// ID is the identity of a key.
//
// IDs are 128-bit random identifiers,
// so two independently constructed keys never share one.
// ID is comparable and is used directly as a map key by the hub.
type ID uuid.UUID

// String returns the canonical textual form of the ID.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Key is the identity of a single topic,
// bound to the payload type T when constructed.
//
// Declare each key exactly once, as a package-level variable,
// and reference that declaration from both
// the subscribing and the publishing side:
//
//	var KeyPersonChanged = hkey.NewNamed[Person]("person.changed")
//
// Two keys are the same topic if and only if their IDs are equal;
// the diagnostic name never participates in identity.
// The zero value of Key is not a valid key.
type Key[T any] struct {
	id   ID
	name string
}

// New returns a key for payload type T with a fresh unique identifier
// and no diagnostic name.
func New[T any]() Key[T] {
	return Key[T]{id: ID(uuid.New())}
}

// NewNamed returns a key for payload type T with a fresh unique identifier,
// carrying name for use in logs and diagnostics.
//
// The name does not need to be unique,
// although distinct names make failure output much easier to read.
func NewNamed[T any](name string) Key[T] {
	return Key[T]{id: ID(uuid.New()), name: name}
}

// ID returns the key's identity.
func (k Key[T]) ID() ID {
	return k.id
}

// Name returns the diagnostic name given to [NewNamed],
// or the empty string for a key from [New].
func (k Key[T]) Name() string {
	return k.name
}

// IsZero reports whether k is the zero value,
// which is never a usable key.
func (k Key[T]) IsZero() bool {
	return k.id == ID{}
}

// String returns the diagnostic name if the key has one,
// otherwise the textual form of the key's ID.
func (k Key[T]) String() string {
	if k.name != "" {
		return k.name
	}
	return k.id.String()
}
