package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/app"
	"github.com/Arnur12345/quizmaker-task/internal/config"
	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/Arnur12345/quizmaker-task/internal/infra/memory"
	pgstore "github.com/Arnur12345/quizmaker-task/internal/infra/postgres"
	redisstore "github.com/Arnur12345/quizmaker-task/internal/infra/redis"
	"github.com/Arnur12345/quizmaker-task/internal/session"
	transport "github.com/Arnur12345/quizmaker-task/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
)

// NewServeCmd builds the CLI subcommand to start the quiz service.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz service",
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
		err := withMigratorConfig(ctx, cfg, func(ctx context.Context, m *migrate.Migrator) error {
			_, err := m.Migrate(ctx)
			return err
		})
		if err != nil {
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgstore.NewQuizLoader(pool)
	}

	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var results app.ResultStore = memory.NewResultStore()
	if pool != nil {
		results = pgstore.NewResultStore(pool)
	}

	var scores app.ScoreStore = memory.NewScoreStore()
	if redisClient != nil {
		scores = redisstore.NewScoreStore(redisClient)
	}

	service := app.NewQuizService(quizRepo, results, scores)
	duration := config.Duration(cfg.Session.Duration, session.DefaultDuration)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	transport.NewHandler(service, cfg.Auth.Token).Register(mux)
	mux.HandleFunc("/ws/session", transport.NewWSHandler(service, duration).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
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

// sampleQuizzes provides demo content for running without Postgres.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Geography warm-up",
			Questions: []domain.Question{
				{
					ID: "q1", Prompt: "What is the capital of France?", Kind: domain.KindSingle, Points: 2,
					Options: []domain.Option{
						{ID: "o1", Text: "London"},
						{ID: "o2", Text: "Paris", Correct: true},
						{ID: "o3", Text: "Berlin"},
					},
				},
				{
					ID: "q2", Prompt: "Which of these are EU member states?", Kind: domain.KindMultiple, Points: 3,
					Options: []domain.Option{
						{ID: "o1", Text: "France", Correct: true},
						{ID: "o2", Text: "Norway"},
						{ID: "o3", Text: "Spain", Correct: true},
					},
				},
				{
					ID: "q3", Prompt: "Type the capital of Italy", Kind: domain.KindText, Points: 1,
					ExpectedAnswer: "rome",
				},
			},
		},
	}
}
