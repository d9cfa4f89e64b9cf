package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRouterReplaceNotifiesSubscribers(t *testing.T) {
	router, err := NewMemoryRouter("?w_A=active")
	require.NoError(t, err)
	assert.Equal(t, "active", router.Current().Get("w_A"))

	ch, cancel := router.Subscribe()
	defer cancel()

	require.NoError(t, router.Replace("w_B=active"))
	assert.Equal(t, "w_B=active", <-ch)
	assert.Equal(t, []string{"w_B=active"}, router.History())
	assert.Equal(t, 1, router.Commits())
}

func TestMemoryRouterRejectsBrokenQuery(t *testing.T) {
	router, err := NewMemoryRouter("")
	require.NoError(t, err)
	assert.Error(t, router.Replace("w_A=%zz"))
	assert.Equal(t, 0, router.Commits())

	_, err = NewMemoryRouter("%zz=1")
	assert.Error(t, err)
}

func TestMemoryRouterCurrentIsACopy(t *testing.T) {
	router, err := NewMemoryRouter("w_A=active")
	require.NoError(t, err)
	values := router.Current()
	values.Set("w_A", "inactive")
	assert.Equal(t, "active", router.Current().Get("w_A"))
}

func TestSubscriberCancelIsIdempotent(t *testing.T) {
	router, err := NewMemoryRouter("")
	require.NoError(t, err)
	_, cancel := router.Subscribe()
	cancel()
	cancel()
	require.NoError(t, router.Replace("w_A=active"))
}
