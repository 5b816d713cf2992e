package domain

// QuestionItem is a single multiple-choice quiz item. Items are defined
// once at catalog load and never mutated.
type QuestionItem struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"` // length >= 2
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// Lesson is a browsable lesson card.
type Lesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tag   string `json:"tag"`
	Blurb string `json:"blurb"`
}

// Catalog bundles the fixed question bank and lesson list.
type Catalog struct {
	ID        string         `json:"id"`
	Questions []QuestionItem `json:"questions"`
	Lessons   []Lesson       `json:"lessons"`
}

// UserProfile is the per-player progression state. LastDaily holds a
// civil date in "2006-01-02" form, empty when no daily was ever scored.
type UserProfile struct {
	Name      string  `json:"name"`
	Coins     int     `json:"coins"`
	Level     int     `json:"level"` // derived from coins, never decreases
	Streak    int     `json:"streak"`
	LastDaily string  `json:"lastDaily,omitempty"`
	Portfolio float64 `json:"portfolio"`
}

// LeaderboardEntry is a named score record, keyed by exact name.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Coins int    `json:"coins"`
	Level int    `json:"level"`
}

// Snapshot is the unit the persistence collaborator stores and loads.
// A Save followed by a Load must reproduce the same logical snapshot.
type Snapshot struct {
	User        *UserProfile       `json:"user,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
}

// AnswerFeedback is what a single answer submission reports back.
type AnswerFeedback struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	Finished     bool   `json:"finished"`
}

// RewardResult summarizes finalizing a completed session.
type RewardResult struct {
	CoinsAwarded   int  `json:"coinsAwarded"`
	NewLevel       int  `json:"newLevel"`
	NewStreak      int  `json:"newStreak"`
	StreakExtended bool `json:"streakExtended"`
	StreakStarted  bool `json:"streakStarted"`
}

// DashboardStats is the read model the UI renders on the dashboard.
type DashboardStats struct {
	Name           string  `json:"name"`
	Coins          int     `json:"coins"`
	Level          int     `json:"level"`
	Streak         int     `json:"streak"`
	Portfolio      float64 `json:"portfolio"`
	DailyAvailable bool    `json:"dailyAvailable"`
}

// Projection is one simulator data point: the value of an investment
// after a number of whole years, plus which reward milestones it clears.
type Projection struct {
	Principal float64   `json:"principal"`
	Years     int       `json:"years"`
	Value     float64   `json:"value"`
	Unlocked  []float64 `json:"unlocked,omitempty"`
}
