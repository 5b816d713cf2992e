package redis

import (
	"context"
	"testing"
	"time"

	"brainbank-service/internal/domain"
	"brainbank-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog()),
	}
	repo := NewCatalogRepository(client, loader, time.Minute)

	catalog, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if len(catalog.Questions) != 1 || len(catalog.Lessons) != 1 {
		t.Fatalf("unexpected catalog %+v", catalog)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("brainbank:catalog") {
		t.Fatalf("expected catalog cached in redis")
	}

	// Second call should hit the redis cache, loader not incremented.
	cached, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[0].Prompt != catalog.Questions[0].Prompt {
		t.Fatalf("cached catalog differs: %+v", cached)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		ID: "brainbank",
		Questions: []domain.QuestionItem{
			{
				Prompt:       "A budget is…",
				Options:      []string{"A list of debts", "A plan for income & spending"},
				CorrectIndex: 1,
				Explanation:  "A budget is a forward-looking plan.",
			},
		},
		Lessons: []domain.Lesson{
			{ID: "l1", Title: "What is Money?", Tag: "basics", Blurb: "From barter to banknotes."},
		},
	}
}
