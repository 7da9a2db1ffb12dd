package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	c.SetJSON(ctx, CourseListKey, []string{"go"}, time.Minute)
	var got []string
	assert.False(t, c.GetJSON(ctx, CourseListKey, &got))
	assert.Nil(t, got)
	c.Delete(ctx, CourseListKey)
	assert.NoError(t, c.Close())
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), "")
	require.Error(t, err)

	_, err = New(context.Background(), "http://not-redis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cache URL")
}

func TestConnectWithoutURLLeavesCacheDisabled(t *testing.T) {
	prev := Default
	t.Cleanup(func() { Default = prev })

	Default = nil
	Connect("")
	assert.Nil(t, Default)
}
