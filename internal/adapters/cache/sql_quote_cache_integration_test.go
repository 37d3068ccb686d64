//go:build postgres_integration

package cache

import (
	"context"
	"delivery-cost-service/internal/platform/db"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLQuoteCachePostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()

	conn, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, InitSchema(ctx, conn))

	c := NewSQLQuoteCache(conn)
	key := "quote:integration:" + time.Now().Format(time.RFC3339Nano)

	require.NoError(t, c.Put(ctx, key, sampleQuote("q1"), time.Minute))
	require.NoError(t, c.Put(ctx, key, sampleQuote("q2"), time.Minute))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q2", got.ID)

	c.Now = func() time.Time { return time.Now().Add(time.Hour) }
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
