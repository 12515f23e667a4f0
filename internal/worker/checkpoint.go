package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Checkpoint is the last archived record. Records are walked by (Date, ID)
// so sales sharing a timestamp are neither skipped nor repeated.
type Checkpoint struct {
	Date time.Time `json:"date"`
	ID   string    `json:"id"`
}

func (c Checkpoint) IsZero() bool { return c.ID == "" }

type CheckpointStore interface {
	Load(ctx context.Context) (Checkpoint, error)
	Save(ctx context.Context, cp Checkpoint) error
}

// RedisCheckpoint keeps the checkpoint as JSON under one key.
type RedisCheckpoint struct {
	rdb *redis.Client
	key string
}

func NewRedisCheckpoint(rdb *redis.Client, key string) *RedisCheckpoint {
	return &RedisCheckpoint{rdb: rdb, key: key}
}

var _ CheckpointStore = (*RedisCheckpoint)(nil)

// Load returns the zero Checkpoint when none was saved yet.
func (r *RedisCheckpoint) Load(ctx context.Context) (Checkpoint, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Checkpoint{}, nil
	}
	if err != nil {
		return Checkpoint{}, fmt.Errorf("load checkpoint: %w", err)
	}
	return decodeCheckpoint(raw)
}

func (r *RedisCheckpoint) Save(ctx context.Context, cp Checkpoint) error {
	raw, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func decodeCheckpoint(raw []byte) (Checkpoint, error) {
	var cp Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, nil
}
