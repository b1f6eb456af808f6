package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ViewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCache(client, ttl), mr
}

func fill(t *testing.T, c *ViewCache, path, variant, body string) {
	t.Helper()
	slot, err := c.Lookup(context.Background(), path, variant)
	require.NoError(t, err)
	require.NoError(t, c.Fill(context.Background(), slot, []byte(body)))
}

func hit(t *testing.T, c *ViewCache, path, variant string) bool {
	t.Helper()
	slot, err := c.Lookup(context.Background(), path, variant)
	require.NoError(t, err)
	return slot.Hit
}

func TestViewCache_LookupFill(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	slot, err := c.Lookup(ctx, "/dashboard/invoices", "page=1")
	require.NoError(t, err)
	assert.False(t, slot.Hit)

	require.NoError(t, c.Fill(ctx, slot, []byte(`{"data":[]}`)))

	slot, err = c.Lookup(ctx, "/dashboard/invoices", "page=1")
	require.NoError(t, err)
	assert.True(t, slot.Hit)
	assert.Equal(t, `{"data":[]}`, string(slot.Body))
}

func TestViewCache_InvalidateDropsAllVariants(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	fill(t, c, "/dashboard/invoices", "page=1", "a")
	fill(t, c, "/dashboard/invoices", "query=acme", "b")
	fill(t, c, "/dashboard/customers", "", "c")

	require.NoError(t, c.Invalidate(context.Background(), "/dashboard/invoices"))

	assert.False(t, hit(t, c, "/dashboard/invoices", "page=1"))
	assert.False(t, hit(t, c, "/dashboard/invoices", "query=acme"))
	assert.True(t, hit(t, c, "/dashboard/customers", ""), "other paths keep their entries")
}

func TestViewCache_FillAfterInvalidateStaysStale(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	slot, err := c.Lookup(ctx, "/dashboard/invoices", "")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "/dashboard/invoices"))
	require.NoError(t, c.Fill(ctx, slot, []byte("computed before the write")))

	assert.False(t, hit(t, c, "/dashboard/invoices", ""))
}

func TestViewCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)

	fill(t, c, "/dashboard/invoices", "", "a")
	mr.FastForward(2 * time.Minute)

	assert.False(t, hit(t, c, "/dashboard/invoices", ""))
}

func TestViewCache_StoreFailure(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.SetError("LOADING")

	assert.Error(t, c.Invalidate(context.Background(), "/dashboard/invoices"))
	_, err := c.Lookup(context.Background(), "/dashboard/invoices", "")
	assert.Error(t, err)
}
