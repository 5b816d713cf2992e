package memory

import (
	"context"
	"sync"

	"brainbank-service/internal/domain"
)

// SnapshotStore is an in-memory implementation of app.SnapshotStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

func (s *SnapshotStore) Load(_ context.Context, player string) (domain.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[player]
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	return copySnapshot(snap), true, nil
}

func (s *SnapshotStore) Save(_ context.Context, player string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[player] = copySnapshot(snap)
	return nil
}

func (s *SnapshotStore) Clear(_ context.Context, player string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, player)
	return nil
}

// copySnapshot detaches the stored value from caller-owned memory so
// later mutations on either side cannot leak through.
func copySnapshot(snap domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{}
	if snap.User != nil {
		user := *snap.User
		out.User = &user
	}
	if snap.Leaderboard != nil {
		out.Leaderboard = make([]domain.LeaderboardEntry, len(snap.Leaderboard))
		copy(out.Leaderboard, snap.Leaderboard)
	}
	return out
}
