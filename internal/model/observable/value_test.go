package observable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = time.Second

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func Test_Subscribe_ShouldEmitCurrentValueFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := New(false)
	ch := v.Subscribe(ctx)

	assert.False(t, receive(t, ch))
}

func Test_Subscribe_ShouldDeliverEveryValueInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := New(0)
	ch := v.Subscribe(ctx)

	for i := 1; i <= 50; i++ {
		v.Set(i)
	}

	for want := 0; want <= 50; want++ {
		assert.Equal(t, want, receive(t, ch))
	}
}

func Test_Subscribe_LateSubscriberShouldGetLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := New("light")
	v.Set("dark")

	assert.Equal(t, "dark", receive(t, v.Subscribe(ctx)))
	assert.Equal(t, "dark", v.Get())
}

func Test_Subscribe_ShouldCloseOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	v := New(1)
	ch := v.Subscribe(ctx)
	receive(t, ch)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, waitFor, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return v.subscribers() == 0 }, waitFor, 10*time.Millisecond)
}

func Test_Subscribe_ShouldFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := New(0)
	a, b := v.Subscribe(ctx), v.Subscribe(ctx)
	receive(t, a)
	receive(t, b)

	v.Set(7)

	assert.Equal(t, 7, receive(t, a))
	assert.Equal(t, 7, receive(t, b))
}
