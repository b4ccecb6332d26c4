package heraldtest

import (
	"testing"

	"github.com/heraldlib/herald"
	"github.com/heraldlib/herald/internal/htest"
)

// NewHub returns a hub that logs through t
// and is closed via t.Cleanup at the end of the test.
func NewHub(t testing.TB) *herald.Hub {
	t.Helper()

	h := herald.NewHub(htest.NewLogger(t), herald.HubConfig{})
	t.Cleanup(h.Close)

	return h
}
