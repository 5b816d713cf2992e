package app

import (
	"math/rand"
	"time"

	"brainbank-service/internal/domain"
)

// SelectDaily picks the daily-challenge question as a pure function of
// the calendar date: same date, same item.
func SelectDaily(catalog domain.Catalog, date time.Time) (domain.QuestionItem, error) {
	if len(catalog.Questions) == 0 {
		return domain.QuestionItem{}, domain.ErrEmptyCatalog
	}
	idx := date.Day() % len(catalog.Questions)
	return catalog.Questions[idx], nil
}

// SelectQuick draws min(n, len) distinct questions from the catalog in
// random order. No item repeats within one draw.
func SelectQuick(catalog domain.Catalog, n int, rnd *rand.Rand) ([]domain.QuestionItem, error) {
	if len(catalog.Questions) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	if n > len(catalog.Questions) {
		n = len(catalog.Questions)
	}
	if n < 1 {
		n = 1
	}
	picked := make([]domain.QuestionItem, len(catalog.Questions))
	copy(picked, catalog.Questions)
	rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n], nil
}
