package worker

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCheckpoint(t *testing.T) {
	cp, err := decodeCheckpoint([]byte(`{"date":"2024-04-10T06:00:00.000000123Z","id":"p-7"}`))
	require.NoError(t, err)
	assert.Equal(t, "p-7", cp.ID)
	assert.Equal(t, time.Date(2024, 4, 10, 6, 0, 0, 123, time.UTC), cp.Date.UTC())
	assert.False(t, cp.IsZero())

	cp, err = decodeCheckpoint([]byte(`{"date":"2024-02-01T05:00:00+01:00","id":"p05"}`))
	require.NoError(t, err)
	assert.True(t, cp.Date.Equal(time.Date(2024, 2, 1, 4, 0, 0, 0, time.UTC)))

	_, err = decodeCheckpoint([]byte("not json"))
	assert.Error(t, err)
}

func TestCheckpoint_ZeroBeforeFirstSave(t *testing.T) {
	assert.True(t, Checkpoint{}.IsZero())
	assert.True(t, Checkpoint{Date: time.Now()}.IsZero(), "a checkpoint without id starts from the beginning")
}

func TestRedisCheckpoint_LoadErrorIsWrapped(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	_, err := NewRedisCheckpoint(rdb, "archive:test").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load checkpoint")
}
