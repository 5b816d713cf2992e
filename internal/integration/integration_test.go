package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"brainbank-service/internal/app"
	"brainbank-service/internal/domain"
	pgloader "brainbank-service/internal/infra/postgres"
	pgmigrations "brainbank-service/internal/infra/postgres/migrations"
	infraredis "brainbank-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuickQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL, sampleCatalog())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewCatalogLoader(pool, "brainbank")

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	catalogs := infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute)
	snapshots := infraredis.NewSnapshotStore(redisClient, 5*time.Minute)
	service := app.NewGameService(snapshots, catalogs, app.DefaultGameConfig())

	if _, err := service.Login(ctx, "Alice"); err != nil {
		t.Fatalf("login: %v", err)
	}
	start, err := service.StartQuick(ctx, "Alice")
	if err != nil {
		t.Fatalf("start quick: %v", err)
	}
	if start.Total != 3 {
		t.Fatalf("expected 3 questions, got %d", start.Total)
	}

	var reward *domain.RewardResult
	for i := 0; i < start.Total; i++ {
		_, r, err := service.SubmitAnswer(ctx, "Alice", 0)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		reward = r
	}
	if reward == nil || reward.CoinsAwarded != 30 {
		t.Fatalf("expected 30 coins, got %+v", reward)
	}

	// A fresh service over the same redis restores the profile.
	revived := app.NewGameService(snapshots, catalogs, app.DefaultGameConfig())
	stats, err := revived.Login(ctx, "Alice")
	if err != nil {
		t.Fatalf("relogin: %v", err)
	}
	if stats.Coins != 30 {
		t.Fatalf("expected restored coins 30, got %d", stats.Coins)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "brainbank", "POSTGRES_PASSWORD": "brainbankpass", "POSTGRES_DB": "brainbankdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://brainbank:brainbankpass@%s:%s/brainbankdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, dsn string, catalog domain.Catalog) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("marshal catalog: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO catalogs (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, catalog.ID, string(data)); err != nil {
		t.Fatalf("insert catalog: %v", err)
	}
}

// sampleCatalog is five questions where option 0 is always correct.
func sampleCatalog() domain.Catalog {
	questions := make([]domain.QuestionItem, 5)
	for i := range questions {
		questions[i] = domain.QuestionItem{
			Prompt:       fmt.Sprintf("Question %d", i+1),
			Options:      []string{"right", "wrong", "also wrong"},
			CorrectIndex: 0,
			Explanation:  "The first option was correct.",
		}
	}
	return domain.Catalog{ID: "brainbank", Questions: questions}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
