package htest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a logger that writes through t.Log,
// so that log output interleaves correctly with test output
// and is only shown for failing tests.
func NewLogger(t testing.TB) *slog.Logger {
	return slogt.New(t)
}
