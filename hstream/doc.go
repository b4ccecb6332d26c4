// Package hstream contains the single-writer, many-reader value stream
// backing herald subscriptions.
//
// The [Stream] type is the per-subscriber buffer:
// the hub appends values to the tail,
// and the subscription walks the list at the consumer's own pace.
// It is exported for use outside the hub,
// anywhere one writer needs to hand an ordered, unbounded sequence
// of values to independently paced readers.
package hstream
