package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog([]Product{
		{ID: "b", Name: "Basketball", PriceCents: 2095},
		{ID: "a", Name: "Socks", PriceCents: 1090},
	})

	require.Equal(t, 2, c.Len())
	list := c.List()
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)

	p, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Socks", p.Name)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	_, err := c.Lookup("missing")
	require.ErrorIs(t, err, ErrNotFound)

	p, err = c.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, int64(2095), p.PriceCents)
}
