package domain

import "errors"

var (
	// ErrEmptyCatalog is returned when a selection is drawn from a catalog with no questions.
	ErrEmptyCatalog = errors.New("question catalog is empty")
	// ErrInvalidChoice indicates a submitted option index is out of range for the current question.
	ErrInvalidChoice = errors.New("invalid option choice")
	// ErrSessionComplete indicates the quiz session has already answered every question.
	ErrSessionComplete = errors.New("quiz session already complete")
	// ErrNoActiveSession is returned when an answer arrives without a running session.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrDailyAlreadyPlayed indicates the daily challenge was already scored today.
	ErrDailyAlreadyPlayed = errors.New("daily challenge already played today")
	// ErrNotLoggedIn is returned when a player acts before logging in.
	ErrNotLoggedIn = errors.New("player not logged in")
	// ErrEmptyName rejects blank player or leaderboard names.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrCatalogNotFound indicates the catalog content could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
)
