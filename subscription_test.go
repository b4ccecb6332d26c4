package herald_test

import (
	"context"
	"errors"
	"testing"

	"github.com/heraldlib/herald"
	"github.com/heraldlib/herald/heraldtest"
	"github.com/heraldlib/herald/hkey"
	"github.com/heraldlib/herald/internal/htest"
	"github.com/stretchr/testify/require"
)

func TestSubscription_Next_waitsForValue(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[string]("async")
	sub := herald.Subscribe(h, key)

	pubDone := make(chan struct{})
	go func() {
		defer close(pubDone)
		herald.Publish(h, key, "eventually")
	}()

	got, err := sub.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "eventually", got)

	htest.ReceiveSoon(t, pubDone)
}

func TestSubscription_Next_reportsContextCause(t *testing.T) {
	t.Parallel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("idle")
	sub := herald.Subscribe(h, key)

	cause := errors.New("deadline for the whole operation")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	_, err := sub.Next(ctx)
	require.ErrorIs(t, err, cause)
}

func TestSubscription_Next_bufferedValueBeatsDoneContext(t *testing.T) {
	t.Parallel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("buffered")
	sub := herald.Subscribe(h, key)

	herald.Publish(h, key, 9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The buffered value is returned immediately;
	// ctx is only consulted when Next has to wait.
	got, err := sub.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 9, got)

	_, err = sub.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSubscription_Cancel_stopsDelivery(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("selective")

	canceled := herald.Subscribe(h, key)
	kept := herald.Subscribe(h, key)

	canceled.Cancel()
	herald.Publish(h, key, 5)

	got, err := kept.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, got)

	_, err = canceled.Next(ctx)
	require.ErrorIs(t, err, herald.ErrCanceled)
}

func TestSubscription_Cancel_drainsBufferedValuesFirst(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("drain")
	sub := herald.Subscribe(h, key)

	herald.Publish(h, key, 1)
	herald.Publish(h, key, 2)

	sub.Cancel()

	got, err := sub.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got)

	got, err = sub.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, got)

	_, err = sub.Next(ctx)
	require.ErrorIs(t, err, herald.ErrCanceled)
}

func TestSubscription_Cancel_idempotent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("twice")
	sub := herald.Subscribe(h, key)

	sub.Cancel()
	sub.Cancel()

	_, err := sub.Next(ctx)
	require.ErrorIs(t, err, herald.ErrCanceled)
	require.Zero(t, h.SubscriberCount(key.ID()))
}

func TestSubscription_All_yieldsUntilCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("ranged")
	sub := herald.Subscribe(h, key)

	herald.Publish(h, key, 1)
	herald.Publish(h, key, 2)
	herald.Publish(h, key, 3)
	sub.Cancel()

	var got []int
	for v := range sub.All(ctx) {
		got = append(got, v)
	}

	require.Equal(t, []int{1, 2, 3}, got)
}

func TestSubscription_All_breakDoesNotCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("resumable")
	sub := herald.Subscribe(h, key)

	herald.Publish(h, key, 1)
	herald.Publish(h, key, 2)
	herald.Publish(h, key, 3)

	for v := range sub.All(ctx) {
		require.Equal(t, 1, v)
		break
	}

	// The subscription is still live and consumption resumes.
	require.Equal(t, 1, h.SubscriberCount(key.ID()))

	got, err := sub.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestSubscription_All_endsWhenContextEnds(t *testing.T) {
	t.Parallel()

	h := heraldtest.NewHub(t)
	key := hkey.NewNamed[int]("interrupted")
	sub := herald.Subscribe(h, key)

	herald.Publish(h, key, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	count := 0
	for v := range sub.All(ctx) {
		require.Equal(t, 1, v)
		count++
		cancel()
	}

	require.Equal(t, 1, count)
}
