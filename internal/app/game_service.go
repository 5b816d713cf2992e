package app

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"brainbank-service/internal/domain"
)

// SnapshotStore abstracts the persistence collaborator (in-memory,
// Redis, etc). Saves fully overwrite the stored snapshot; a Save
// followed by a Load reproduces the same logical snapshot.
type SnapshotStore interface {
	Load(ctx context.Context, player string) (domain.Snapshot, bool, error)
	Save(ctx context.Context, player string, snap domain.Snapshot) error
	Clear(ctx context.Context, player string) error
}

// CatalogRepository loads the question/lesson catalog (from cache or a
// backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// GameConfig bundles the gameplay knobs.
type GameConfig struct {
	Policy           RewardPolicy
	QuickQuizSize    int
	LeaderboardLimit int
	Simulator        Simulator
}

// DefaultGameConfig mirrors the original demo: 3-question quick
// quizzes and a 20-row leaderboard display.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Policy:           DefaultRewardPolicy(),
		QuickQuizSize:    3,
		LeaderboardLimit: 20,
		Simulator:        DefaultSimulator(),
	}
}

// GameService contains the BrainBank use cases. Each player owns an
// independent state; the only cross-player data is what the snapshot
// store holds per key.
type GameService struct {
	snapshots SnapshotStore
	catalogs  CatalogRepository
	cfg       GameConfig
	now       func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu      sync.RWMutex
	players map[string]*playerState
}

// playerState is one logged-in player: profile, mirrored leaderboard,
// and the at-most-one active quiz session.
type playerState struct {
	mu                sync.Mutex
	profile           domain.UserProfile
	leaderboard       []domain.LeaderboardEntry
	session           *QuizSession
	portfolioCredited bool
}

func NewGameService(snapshots SnapshotStore, catalogs CatalogRepository, cfg GameConfig) *GameService {
	return NewGameServiceWithClock(snapshots, catalogs, cfg, time.Now)
}

// NewGameServiceWithClock allows deterministic dates in tests.
func NewGameServiceWithClock(snapshots SnapshotStore, catalogs CatalogRepository, cfg GameConfig, now func() time.Time) *GameService {
	return &GameService{
		snapshots: snapshots,
		catalogs:  catalogs,
		cfg:       cfg,
		now:       now,
		rnd:       rand.New(rand.NewSource(now().UnixNano())),
		players:   make(map[string]*playerState),
	}
}

// QuizStart describes a freshly started session for the UI.
type QuizStart struct {
	Daily bool
	Total int
	First domain.QuestionItem
}

// Login registers a player, restoring any persisted snapshot, and
// returns the dashboard view. Names must be non-empty after trimming.
func (g *GameService) Login(ctx context.Context, name string) (domain.DashboardStats, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DashboardStats{}, domain.ErrEmptyName
	}

	g.mu.Lock()
	state, ok := g.players[name]
	if !ok {
		state = &playerState{profile: domain.UserProfile{Name: name, Level: 1}}
		g.players[name] = state
	}
	g.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()

	if snap, found, err := g.snapshots.Load(ctx, name); err != nil {
		// Persistence trouble never blocks play; continue on memory.
		log.Printf("load snapshot for %q: %v", name, err)
	} else if found {
		if snap.User != nil {
			state.profile = *snap.User
		}
		state.leaderboard = snap.Leaderboard
	}
	g.persistLocked(ctx, state)
	return g.statsLocked(state), nil
}

// StartDaily begins the single-question daily challenge. It fails with
// ErrDailyAlreadyPlayed, constructing nothing, when today's challenge
// was already scored.
func (g *GameService) StartDaily(ctx context.Context, player string) (QuizStart, error) {
	state, err := g.player(player)
	if err != nil {
		return QuizStart{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if !DailyAvailable(state.profile, g.now()) {
		return QuizStart{}, domain.ErrDailyAlreadyPlayed
	}

	catalog, err := g.catalogs.GetCatalog(ctx)
	if err != nil {
		return QuizStart{}, err
	}
	question, err := SelectDaily(catalog, g.now())
	if err != nil {
		return QuizStart{}, err
	}
	// Starting a quiz discards any prior incomplete session.
	session, err := NewQuizSession([]domain.QuestionItem{question}, true)
	if err != nil {
		return QuizStart{}, err
	}
	state.session = session
	return QuizStart{Daily: true, Total: 1, First: question}, nil
}

// StartQuick begins a randomized quick quiz of the configured size.
func (g *GameService) StartQuick(ctx context.Context, player string) (QuizStart, error) {
	state, err := g.player(player)
	if err != nil {
		return QuizStart{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	catalog, err := g.catalogs.GetCatalog(ctx)
	if err != nil {
		return QuizStart{}, err
	}
	g.rndMu.Lock()
	questions, err := SelectQuick(catalog, g.cfg.QuickQuizSize, g.rnd)
	g.rndMu.Unlock()
	if err != nil {
		return QuizStart{}, err
	}
	session, err := NewQuizSession(questions, false)
	if err != nil {
		return QuizStart{}, err
	}
	state.session = session
	return QuizStart{Total: len(questions), First: questions[0]}, nil
}

// CurrentQuestion returns the question awaiting an answer.
func (g *GameService) CurrentQuestion(player string) (domain.QuestionItem, error) {
	state, err := g.player(player)
	if err != nil {
		return domain.QuestionItem{}, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.session == nil {
		return domain.QuestionItem{}, domain.ErrNoActiveSession
	}
	return state.session.Current()
}

// SubmitAnswer scores one choice. When the session finishes it also
// finalizes rewards, reconciles the leaderboard, and saves a snapshot;
// the reward result is nil for every non-final answer.
func (g *GameService) SubmitAnswer(ctx context.Context, player string, choice int) (domain.AnswerFeedback, *domain.RewardResult, error) {
	state, err := g.player(player)
	if err != nil {
		return domain.AnswerFeedback{}, nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.session == nil {
		return domain.AnswerFeedback{}, nil, domain.ErrNoActiveSession
	}
	feedback, err := state.session.Submit(choice)
	if err != nil {
		return domain.AnswerFeedback{}, nil, err
	}
	if !feedback.Finished {
		return feedback, nil, nil
	}

	result := g.cfg.Policy.Finalize(state.session, &state.profile, g.now())
	state.leaderboard = UpsertLeaderboard(state.leaderboard, state.profile.Name, state.profile.Coins, state.profile.Level)
	state.session = nil
	g.persistLocked(ctx, state)
	return feedback, &result, nil
}

// AbandonSession drops any incomplete session without scoring it.
func (g *GameService) AbandonSession(player string) {
	state, err := g.player(player)
	if err != nil {
		return
	}
	state.mu.Lock()
	state.session = nil
	state.mu.Unlock()
}

// Stats returns the dashboard view for a player.
func (g *GameService) Stats(player string) (domain.DashboardStats, error) {
	state, err := g.player(player)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return g.statsLocked(state), nil
}

// Lessons returns the filtered lesson list.
func (g *GameService) Lessons(ctx context.Context, tag, query string) ([]domain.Lesson, error) {
	catalog, err := g.catalogs.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return FilterLessons(catalog.Lessons, tag, query), nil
}

// Leaderboard returns the rendered leaderboard view for a player.
func (g *GameService) Leaderboard(player string) ([]domain.LeaderboardEntry, error) {
	state, err := g.player(player)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return RenderLeaderboard(state.leaderboard, &state.profile, g.cfg.LeaderboardLimit), nil
}

// AddLeaderboardEntry records a named score row (demo feature). Coins
// must be non-negative and the name non-empty.
func (g *GameService) AddLeaderboardEntry(ctx context.Context, player, entryName string, coins int) error {
	entryName = strings.TrimSpace(entryName)
	if entryName == "" {
		return domain.ErrEmptyName
	}
	if coins < 0 {
		coins = 0
	}
	state, err := g.player(player)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	level := coins/g.cfg.Policy.LevelDivisor + 1
	state.leaderboard = UpsertLeaderboard(state.leaderboard, entryName, coins, level)
	g.persistLocked(ctx, state)
	return nil
}

// Rename changes the player's display name and re-keys the stored
// snapshot. A no-op when the name is unchanged.
func (g *GameService) Rename(ctx context.Context, player, newName string) (domain.DashboardStats, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.DashboardStats{}, domain.ErrEmptyName
	}
	state, err := g.player(player)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if newName == state.profile.Name {
		return g.statsLocked(state), nil
	}

	old := state.profile.Name
	state.profile.Name = newName

	g.mu.Lock()
	delete(g.players, old)
	g.players[newName] = state
	g.mu.Unlock()

	if err := g.snapshots.Clear(ctx, old); err != nil {
		log.Printf("clear snapshot for %q: %v", old, err)
	}
	g.persistLocked(ctx, state)
	return g.statsLocked(state), nil
}

// Invest runs the compound-interest scenario for the given horizon and
// credits the profit to the player's portfolio, at most once per
// scenario run.
func (g *GameService) Invest(ctx context.Context, player string, years int) (domain.Projection, error) {
	state, err := g.player(player)
	if err != nil {
		return domain.Projection{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	projection := g.cfg.Simulator.Project(years)
	if !state.portfolioCredited {
		state.profile.Portfolio += g.cfg.Simulator.Gain(projection)
		state.portfolioCredited = true
		g.persistLocked(ctx, state)
	}
	return projection, nil
}

// ResetScenario re-arms the simulator's one-shot portfolio credit.
func (g *GameService) ResetScenario(player string) error {
	state, err := g.player(player)
	if err != nil {
		return err
	}
	state.mu.Lock()
	state.portfolioCredited = false
	state.mu.Unlock()
	return nil
}

// Reset wipes the player's persisted snapshot and in-memory state.
func (g *GameService) Reset(ctx context.Context, player string) error {
	state, err := g.player(player)
	if err != nil {
		return err
	}
	state.mu.Lock()
	name := state.profile.Name
	state.mu.Unlock()

	g.mu.Lock()
	delete(g.players, name)
	g.mu.Unlock()

	if err := g.snapshots.Clear(ctx, name); err != nil {
		log.Printf("clear snapshot for %q: %v", name, err)
	}
	return nil
}

func (g *GameService) player(name string) (*playerState, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	state, ok := g.players[name]
	if !ok {
		return nil, domain.ErrNotLoggedIn
	}
	return state, nil
}

func (g *GameService) statsLocked(state *playerState) domain.DashboardStats {
	return domain.DashboardStats{
		Name:           state.profile.Name,
		Coins:          state.profile.Coins,
		Level:          state.profile.Level,
		Streak:         state.profile.Streak,
		Portfolio:      state.profile.Portfolio,
		DailyAvailable: DailyAvailable(state.profile, g.now()),
	}
}

// persistLocked saves a snapshot best-effort; the caller holds state.mu.
// Store failures are logged and play continues on in-memory state.
func (g *GameService) persistLocked(ctx context.Context, state *playerState) {
	profile := state.profile
	snap := domain.Snapshot{User: &profile, Leaderboard: state.leaderboard}
	if err := g.snapshots.Save(ctx, profile.Name, snap); err != nil {
		log.Printf("save snapshot for %q: %v", profile.Name, err)
	}
}
