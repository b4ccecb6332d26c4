// Package herald implements a strongly typed, in-process
// publish/subscribe hub.
//
// Producers publish values under an [hkey.Key], which binds the
// payload type to the topic at compile time.
// Consumers receive an ordered, lazily consumed sequence of values
// through a [Subscription].
//
// The hub deliberately fails fast, with a panic, when a value is
// published under a key it has never seen:
// that indicates a missing subscribe or register call, or a
// mismatched key declaration, and is treated as a programming error
// rather than an event to drop silently.
// See [Hub] for the exact policy.
package herald
