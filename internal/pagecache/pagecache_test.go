package pagecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/kado/internal/model"
)

func TestCacheSetGet(t *testing.T) {
	c := New(8, time.Minute)
	c.Set("blog", "hello", 0, &model.Entry{ID: 1, Title: "Hello"})

	got, ok := c.Get("blog", "hello")
	require.True(t, ok)
	require.Equal(t, "Hello", got.Title)

	_, ok = c.Get("content", "hello")
	require.False(t, ok)
}

func TestCacheReturnsCopy(t *testing.T) {
	c := New(8, time.Minute)
	c.Set("blog", "a", 0, &model.Entry{ID: 1, Title: "A"})
	got, _ := c.Get("blog", "a")
	got.Title = "mutated"

	again, ok := c.Get("blog", "a")
	require.True(t, ok)
	require.Equal(t, "A", again.Title)
}

func TestCacheInvalidateByKind(t *testing.T) {
	c := New(8, time.Minute)
	c.Set("blog", "a", 0, &model.Entry{ID: 1})
	c.Set("blog", "b", 0, &model.Entry{ID: 2})
	c.Set("content", "a", 0, &model.Entry{ID: 3})

	c.Invalidate(context.Background(), "blog")
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("content", "a")
	require.True(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	c := New(0, time.Minute)
	require.Nil(t, c)
	c.Set("blog", "a", 0, &model.Entry{ID: 1})
	_, ok := c.Get("blog", "a")
	require.False(t, ok)
	c.Invalidate(context.Background(), "blog")
	require.Zero(t, c.Len())
}

func TestCacheExpires(t *testing.T) {
	c := New(8, 20*time.Millisecond)
	c.Set("blog", "a", 0, &model.Entry{ID: 1})
	require.Eventually(t, func() bool {
		_, ok := c.Get("blog", "a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCacheDropsSetFromBeforeInvalidate(t *testing.T) {
	c := New(8, time.Minute)
	gen := c.Generation("blog")
	contentGen := c.Generation("content")

	c.Invalidate(context.Background(), "blog")
	require.False(t, c.Set("blog", "a", gen, &model.Entry{ID: 1, Active: true}))
	_, ok := c.Get("blog", "a")
	require.False(t, ok)

	require.True(t, c.Set("content", "a", contentGen, &model.Entry{ID: 2}))
	require.True(t, c.Set("blog", "a", c.Generation("blog"), &model.Entry{ID: 1}))
	require.Equal(t, 2, c.Len())
}
