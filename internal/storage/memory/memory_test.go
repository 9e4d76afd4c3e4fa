package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "cart", "[]"))
	v, ok, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Delete(ctx, "cart"))
	_, ok, err = s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearedExternallyReseeds(t *testing.T) {
	ctx := context.Background()
	s := New()

	c, err := cart.Load(ctx, s, "cart")
	require.NoError(t, err)
	require.NoError(t, c.RemoveItem(ctx, cart.DefaultItems()[0].ProductID))

	require.NoError(t, s.Delete(ctx, "cart"))

	c, err = cart.Load(ctx, s, "cart")
	require.NoError(t, err)
	assert.Equal(t, cart.DefaultItems(), c.Items())
}
