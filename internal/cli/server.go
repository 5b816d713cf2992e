package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brainbank-service/internal/app"
	"brainbank-service/internal/config"
	"brainbank-service/internal/domain"
	"brainbank-service/internal/infra/memory"
	pgloader "brainbank-service/internal/infra/postgres"
	redisinfra "brainbank-service/internal/infra/redis"
	transport "brainbank-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the BrainBank server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	catalogID := cfg.Catalog.ID
	if catalogID == "" {
		catalogID = "brainbank"
	}
	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalog(catalogID))
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool, catalogID)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var snapshots app.SnapshotStore
	if redisClient != nil {
		snapshots = redisinfra.NewSnapshotStore(redisClient, redisTTL)
	} else {
		snapshots = memory.NewSnapshotStore()
	}

	service := app.NewGameService(snapshots, catalogs, gameConfigFrom(cfg.Game))
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting brainbank service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// gameConfigFrom overlays configured policy knobs on the defaults.
func gameConfigFrom(gc config.GameConfig) app.GameConfig {
	out := app.DefaultGameConfig()
	if gc.CoinsPerCorrect > 0 {
		out.Policy.CoinsPerCorrect = gc.CoinsPerCorrect
	}
	if gc.LevelDivisor > 0 {
		out.Policy.LevelDivisor = gc.LevelDivisor
	}
	if gc.StreakRequiresScore != nil {
		out.Policy.StreakRequiresScore = *gc.StreakRequiresScore
	}
	if gc.QuickQuizSize > 0 {
		out.QuickQuizSize = gc.QuickQuizSize
	}
	if gc.LeaderboardLimit > 0 {
		out.LeaderboardLimit = gc.LeaderboardLimit
	}
	return out
}

// sampleCatalog seeds the demo content; swap the loader for the
// Postgres-backed one in production.
func sampleCatalog(id string) domain.Catalog {
	return domain.Catalog{
		ID: id,
		Questions: []domain.QuestionItem{
			{
				Prompt:       "If you earn 3% interest on $100 for one year, how much will you have?",
				Options:      []string{"$100", "$103", "$130", "$3"},
				CorrectIndex: 1,
				Explanation:  "$100 × 1.03 = $103. This is simple interest.",
			},
			{
				Prompt:       "Which is a 'need' more than a 'want'?",
				Options:      []string{"Streaming service", "Fancy sneakers", "Groceries", "Concert tickets"},
				CorrectIndex: 2,
				Explanation:  "Food is a basic survival need, whereas the others are forms of entertainment or luxury.",
			},
			{
				Prompt:       "Diversification in investing helps you…",
				Options:      []string{"Guarantee profits", "Reduce risk", "Avoid taxes", "Pick the best stock"},
				CorrectIndex: 1,
				Explanation:  "Spreading investments across different assets reduces the impact if one performs poorly.",
			},
			{
				Prompt:       "A budget is…",
				Options:      []string{"A list of debts", "A plan for income & spending", "A credit card limit", "A saving account"},
				CorrectIndex: 1,
				Explanation:  "A budget is a forward-looking plan to manage your money effectively.",
			},
			{
				Prompt:       "What does 'compounding' refer to?",
				Options:      []string{"Earning interest on your interest", "Selling a stock for a profit", "Paying a fee to a bank", "Withdrawing money"},
				CorrectIndex: 0,
				Explanation:  "Compounding is when your investment returns start earning their own returns.",
			},
		},
		Lessons: []domain.Lesson{
			{ID: "l1", Title: "What is Money?", Tag: "basics", Blurb: "From barter to banknotes to digital cash."},
			{ID: "l2", Title: "Needs vs Wants", Tag: "basics", Blurb: "A simple budgeting superpower."},
			{ID: "l3", Title: "How Banks Work", Tag: "banking", Blurb: "Deposits, loans, and interest explained."},
			{ID: "l4", Title: "Credit Scores 101", Tag: "banking", Blurb: "Build credit the smart way."},
			{ID: "l5", Title: "Saving vs Investing", Tag: "investing", Blurb: "Risk, reward, and time horizons."},
			{ID: "l6", Title: "What is a Stock?", Tag: "investing", Blurb: "Ownership, dividends, and volatility."},
			{ID: "l7", Title: "Compound Interest Magic", Tag: "investing", Blurb: "How time makes money grow exponentially."},
			{ID: "l8", Title: "Emergency Funds", Tag: "basics", Blurb: "Your financial safety net explained."},
		},
	}
}
