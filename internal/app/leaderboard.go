package app

import (
	"sort"

	"brainbank-service/internal/domain"
)

// UpsertLeaderboard replaces the entry matching name (exact,
// case-sensitive) or appends a new one. Names stay unique in the list.
func UpsertLeaderboard(entries []domain.LeaderboardEntry, name string, coins, level int) []domain.LeaderboardEntry {
	for i := range entries {
		if entries[i].Name == name {
			entries[i] = domain.LeaderboardEntry{Name: name, Coins: coins, Level: level}
			return entries
		}
	}
	return append(entries, domain.LeaderboardEntry{Name: name, Coins: coins, Level: level})
}

// RenderLeaderboard builds the display view: the current user gets a
// transient row when absent (never persisted), ordering is coins
// descending with insertion order breaking ties, and the result is
// truncated to limit rows. The underlying list is not modified.
func RenderLeaderboard(entries []domain.LeaderboardEntry, current *domain.UserProfile, limit int) []domain.LeaderboardEntry {
	view := make([]domain.LeaderboardEntry, len(entries))
	copy(view, entries)

	if current != nil {
		present := false
		for i := range view {
			if view[i].Name == current.Name {
				present = true
				break
			}
		}
		if !present {
			view = append(view, domain.LeaderboardEntry{
				Name:  current.Name,
				Coins: current.Coins,
				Level: current.Level,
			})
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Coins > view[j].Coins
	})

	if limit > 0 && len(view) > limit {
		view = view[:limit]
	}
	return view
}
