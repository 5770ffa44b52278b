package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront-service/events"
	"storefront-service/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis, *events.Feed[events.CartChanged]) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	feed := events.NewFeed[events.CartChanged]()
	s := NewStore(NewRedisKV(client), feed)
	s.now = func() time.Time { return t0 }
	return s, mr, feed
}

func TestStore_AddPersistsEveryMutation(t *testing.T) {
	s, mr, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, 7, shirt(1))
	require.NoError(t, err)
	_, err = s.Add(ctx, 7, shirt(1))
	require.NoError(t, err)

	raw, err := mr.Get("cart:7")
	require.NoError(t, err)
	var lines []model.CartLine
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	total, err := s.TotalPrice(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), total)
}

func TestStore_SetQuantityZeroRemoves(t *testing.T) {
	s, mr, _ := setupStore(t)
	ctx := context.Background()

	c, err := s.Add(ctx, 1, shirt(2))
	require.NoError(t, err)

	c, err = s.SetQuantity(ctx, 1, c.Lines[0].CartLineID, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
	assert.False(t, mr.Exists("cart:1"))
}

func TestStore_ClearThenTotals(t *testing.T) {
	s, _, feed := setupStore(t)
	ctx := context.Background()

	var last events.CartChanged
	feed.Subscribe(func(e events.CartChanged) { last = e })

	_, err := s.Add(ctx, 3, shirt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(200000), last.TotalPrice)

	require.NoError(t, s.Clear(ctx, 3))
	assert.True(t, last.Cleared)

	lines, err := s.TotalLines(ctx, 3)
	require.NoError(t, err)
	price, err := s.TotalPrice(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, lines)
	assert.Equal(t, int64(0), price)
}

func TestStore_MalformedLoadsEmpty(t *testing.T) {
	s, mr, _ := setupStore(t)
	mr.Set("cart:9", "{not json")

	c, err := s.Load(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	ok, err := s.Contains(context.Background(), 9, 1, "M", "red")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_LoadNormalizesStoredLines(t *testing.T) {
	s, mr, _ := setupStore(t)
	first := shirt(2)
	first.CartLineID = "1-M-red-a"
	dup := shirt(3)
	dup.CartLineID = "1-M-red-b"
	zero := model.CartLine{ProductID: 2, UnitPrice: 50000, Quantity: 0, Size: "L", CartLineID: "2-L--c"}
	b, err := json.Marshal([]model.CartLine{first, zero, dup})
	require.NoError(t, err)
	mr.Set("cart:9", string(b))

	c, err := s.Load(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "1-M-red-a", c.Lines[0].CartLineID)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 5, c.TotalItems())
	assert.Equal(t, int64(500000), c.TotalPrice())
}

func TestStore_FailedMutationDoesNotPersist(t *testing.T) {
	s, mr, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.Remove(ctx, 4, "missing")
	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.False(t, mr.Exists("cart:4"))
}

func TestStore_OwnersAreIsolated(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, 1, shirt(1))
	require.NoError(t, err)

	n, err := s.TotalLines(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_RedisDown(t *testing.T) {
	s, mr, _ := setupStore(t)
	mr.Close()

	_, err := s.Add(context.Background(), 1, shirt(1))
	assert.Error(t, err)
}
