package htrace

import (
	"fmt"

	otelattr "go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	otpnoop "go.opentelemetry.io/otel/trace/noop"
)

type TracerProvider = oteltrace.TracerProvider

type Tracer = oteltrace.Tracer

type KeyValueAttr = otelattr.KeyValue

// NopTracerProvider returns the otel no-op tracer provider.
// This is intended to use as a fallback when a nil tracer provider is given.
func NopTracerProvider() TracerProvider {
	return otpnoop.NewTracerProvider()
}

// WithAttributes is an alias to [oteltrace.WithAttributes]
// to allow consumers to only reference the htrace package.
func WithAttributes(attrs ...KeyValueAttr) oteltrace.SpanStartEventOption {
	return oteltrace.WithAttributes(attrs...)
}

// StringerAttr returns an attribute that uses the given Stringer,
// to avoid eagerly evaluating its String method in case the span is not sampled.
func StringerAttr(key string, val fmt.Stringer) KeyValueAttr {
	return otelattr.Stringer(key, val)
}

// IntAttr returns an integer-valued attribute.
func IntAttr(key string, val int) KeyValueAttr {
	return otelattr.Int(key, val)
}
