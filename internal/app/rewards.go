package app

import (
	"time"

	"brainbank-service/internal/domain"
)

const dateLayout = "2006-01-02"

// RewardPolicy holds the tunable reward constants. The two observed
// reference behaviors disagree on LevelDivisor (50 vs 100) and on
// whether a zero-score daily counts toward the streak, so both are
// explicit configuration rather than hard-coded.
type RewardPolicy struct {
	CoinsPerCorrect     int
	LevelDivisor        int
	StreakRequiresScore bool
}

// DefaultRewardPolicy mirrors the original demo: 10 coins per correct
// answer, a level every 100 coins, and no streak credit for a
// zero-score daily (leaving it repeatable the same day).
func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		CoinsPerCorrect:     10,
		LevelDivisor:        100,
		StreakRequiresScore: true,
	}
}

// Finalize converts a completed session into coins, recomputes the
// level, and applies the daily-streak calendar logic to profile.
func (p RewardPolicy) Finalize(session *QuizSession, profile *domain.UserProfile, today time.Time) domain.RewardResult {
	coins := session.CorrectCount() * p.CoinsPerCorrect
	profile.Coins += coins

	level := profile.Coins/p.LevelDivisor + 1
	if level < profile.Level {
		level = profile.Level
	}
	profile.Level = level

	result := domain.RewardResult{
		CoinsAwarded: coins,
		NewLevel:     level,
		NewStreak:    profile.Streak,
	}

	if !session.IsDaily() {
		return result
	}
	if p.StreakRequiresScore && coins == 0 {
		// No LastDaily stamp either: the attempt stays repeatable today.
		return result
	}

	todayKey := today.Format(dateLayout)
	yesterdayKey := today.AddDate(0, 0, -1).Format(dateLayout)
	switch profile.LastDaily {
	case todayKey:
		// Already credited today.
	case yesterdayKey:
		profile.Streak++
		result.StreakExtended = true
	default:
		profile.Streak = 1
		result.StreakStarted = true
	}
	profile.LastDaily = todayKey
	result.NewStreak = profile.Streak
	return result
}

// DailyAvailable reports whether the daily challenge may still be
// started today.
func DailyAvailable(profile domain.UserProfile, today time.Time) bool {
	return profile.LastDaily != today.Format(dateLayout)
}
