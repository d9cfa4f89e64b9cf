package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/erp-navstate/internal/navigation"
)

func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "events channel closed")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatcherEmitsInitialAndChangedQueries(t *testing.T) {
	router, err := navigation.NewMemoryRouter("w_143=active&o_143=1&wi_143=143")
	require.NoError(t, err)
	w := NewWatcher(context.Background(), router, time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	first := next(t, w.Events())
	assert.Equal(t, KindURL, first.Kind)
	assert.Equal(t, "w_143=active&o_143=1&wi_143=143", first.Query)
	require.Len(t, first.Windows, 1)

	require.NoError(t, router.Replace("w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001"))
	changed := next(t, w.Events())
	assert.Equal(t, "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001", changed.Query)
}

func TestWatcherSkipsUnchangedQueries(t *testing.T) {
	router, err := navigation.NewMemoryRouter("w_143=active&o_143=1&wi_143=143")
	require.NoError(t, err)
	w := NewWatcher(context.Background(), router, 10*time.Millisecond)
	next(t, w.Events())

	// same canonical state, different key order
	require.NoError(t, router.Replace("wi_143=143&o_143=1&w_143=active"))
	select {
	case evt := <-w.Events():
		t.Fatalf("unexpected event %q", evt.Query)
	case <-time.After(150 * time.Millisecond):
	}
	w.Stop()
	w.Wait()
}

func TestWatcherClosesEventsOnCancel(t *testing.T) {
	router, err := navigation.NewMemoryRouter("")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(ctx, router, time.Hour)
	next(t, w.Events())
	cancel()
	w.Wait()
	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestThrottleSpacesCallsAndHonoursContext(t *testing.T) {
	th := newThrottle(30 * time.Millisecond)
	start := time.Now()
	require.True(t, th.wait(context.Background()))
	require.True(t, th.wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, th.wait(ctx))
	assert.True(t, newThrottle(0).wait(context.Background()))
}
