package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brainbank-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists player snapshots as JSON blobs in Redis, one
// key per player. Each Save fully overwrites the stored snapshot, so no
// transaction is needed.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Load(ctx context.Context, player string) (domain.Snapshot, bool, error) {
	raw, err := s.client.Get(ctx, s.key(player)).Bytes()
	if err == redis.Nil {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *SnapshotStore) Save(ctx context.Context, player string, snap domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(player), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Clear(ctx context.Context, player string) error {
	if err := s.client.Del(ctx, s.key(player)).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(player string) string {
	return "brainbank:state:" + player
}
