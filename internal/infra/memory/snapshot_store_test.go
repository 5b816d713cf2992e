package memory

import (
	"context"
	"testing"

	"brainbank-service/internal/domain"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	if _, found, err := store.Load(ctx, "alice"); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	snap := domain.Snapshot{
		User: &domain.UserProfile{Name: "alice", Coins: 30, Level: 1, Streak: 2, LastDaily: "2024-01-02"},
		Leaderboard: []domain.LeaderboardEntry{
			{Name: "alice", Coins: 30, Level: 1},
			{Name: "bob", Coins: 10, Level: 1},
		},
	}
	if err := store.Save(ctx, "alice", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := store.Load(ctx, "alice")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if *loaded.User != *snap.User {
		t.Fatalf("user mismatch: %+v vs %+v", loaded.User, snap.User)
	}
	if len(loaded.Leaderboard) != 2 || loaded.Leaderboard[1] != snap.Leaderboard[1] {
		t.Fatalf("leaderboard mismatch: %+v", loaded.Leaderboard)
	}

	// Stored state is detached from caller memory.
	snap.User.Coins = 999
	snap.Leaderboard[0].Coins = 999
	reloaded, _, _ := store.Load(ctx, "alice")
	if reloaded.User.Coins != 30 || reloaded.Leaderboard[0].Coins != 30 {
		t.Fatalf("store aliases caller memory: %+v", reloaded)
	}
}

func TestSnapshotStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	_ = store.Save(ctx, "alice", domain.Snapshot{User: &domain.UserProfile{Name: "alice"}})
	if err := store.Clear(ctx, "alice"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found, _ := store.Load(ctx, "alice"); found {
		t.Fatalf("expected snapshot removed")
	}
}
