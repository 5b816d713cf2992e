package app_test

import (
	"math/rand"
	"testing"
	"time"

	"brainbank-service/internal/app"
	"brainbank-service/internal/domain"
)

func fiveQuestionCatalog() domain.Catalog {
	questions := make([]domain.QuestionItem, 5)
	for i := range questions {
		questions[i] = domain.QuestionItem{
			Prompt:       string(rune('A' + i)),
			Options:      []string{"x", "y"},
			CorrectIndex: 0,
		}
	}
	return domain.Catalog{ID: "test", Questions: questions}
}

func TestSelectDailyIsDeterministic(t *testing.T) {
	catalog := fiveQuestionCatalog()
	date := time.Date(2024, 3, 17, 9, 30, 0, 0, time.UTC)

	first, err := app.SelectDaily(catalog, date)
	if err != nil {
		t.Fatalf("select daily: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := app.SelectDaily(catalog, date)
		if err != nil {
			t.Fatalf("select daily: %v", err)
		}
		if again.Prompt != first.Prompt {
			t.Fatalf("same date produced different items: %q vs %q", again.Prompt, first.Prompt)
		}
	}
	// day 17 mod 5 == 2
	if first.Prompt != catalog.Questions[2].Prompt {
		t.Fatalf("expected question index 2, got %q", first.Prompt)
	}
}

func TestSelectQuickDrawsDistinctItems(t *testing.T) {
	catalog := fiveQuestionCatalog()
	rnd := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		picked, err := app.SelectQuick(catalog, 3, rnd)
		if err != nil {
			t.Fatalf("select quick: %v", err)
		}
		if len(picked) != 3 {
			t.Fatalf("expected 3 items, got %d", len(picked))
		}
		seen := make(map[string]bool)
		for _, q := range picked {
			if seen[q.Prompt] {
				t.Fatalf("duplicate item %q in one draw", q.Prompt)
			}
			seen[q.Prompt] = true
		}
	}
}

func TestSelectQuickCapsAtCatalogSize(t *testing.T) {
	catalog := fiveQuestionCatalog()
	picked, err := app.SelectQuick(catalog, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("select quick: %v", err)
	}
	if len(picked) != 5 {
		t.Fatalf("expected all 5 items, got %d", len(picked))
	}
}

func TestSelectionFailsOnEmptyCatalog(t *testing.T) {
	empty := domain.Catalog{}
	if _, err := app.SelectDaily(empty, time.Now()); err != domain.ErrEmptyCatalog {
		t.Fatalf("daily: expected ErrEmptyCatalog, got %v", err)
	}
	if _, err := app.SelectQuick(empty, 3, rand.New(rand.NewSource(1))); err != domain.ErrEmptyCatalog {
		t.Fatalf("quick: expected ErrEmptyCatalog, got %v", err)
	}
}
