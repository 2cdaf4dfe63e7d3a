package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/app"
	"github.com/Arnur12345/quizmaker-task/internal/domain"
	pgstore "github.com/Arnur12345/quizmaker-task/internal/infra/postgres"
	pgmigrations "github.com/Arnur12345/quizmaker-task/internal/infra/postgres/migrations"
	redisstore "github.com/Arnur12345/quizmaker-task/internal/infra/redis"
	"github.com/Arnur12345/quizmaker-task/internal/session"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

type serviceSubmitter struct {
	service *app.QuizService
	userID  string
}

func (s *serviceSubmitter) SubmitAnswers(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error) {
	return s.service.SubmitAnswers(ctx, s.userID, req)
}

func TestQuizSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuiz(t, ctx, pgURL, sampleQuiz())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	quizRepo := redisstore.NewQuizRepository(redisClient, pgstore.NewQuizLoader(pool), 5*time.Minute)
	service := app.NewQuizService(quizRepo, pgstore.NewResultStore(pool), redisstore.NewScoreStore(redisClient))

	quiz, err := service.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	sess, err := session.New(quiz, &serviceSubmitter{service: service, userID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if err := sess.SetSingle("q1", "o2"); err != nil {
		t.Fatalf("set single: %v", err)
	}
	if err := sess.SetText("q2", " Paris"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if err := sess.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if sess.Status() != session.StatusCompleted {
		t.Fatalf("expected completed, got %s", sess.Status())
	}
	result, ok := sess.Result()
	if !ok || result.CorrectAnswers != 2 || result.TotalPoints != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if sess.UpdatedScore() != 3 {
		t.Fatalf("expected server score 3, got %d", sess.UpdatedScore())
	}

	// Answers and the attempt summary must be persisted.
	var answerRows, resultRows int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM user_answers WHERE user_id='u1'`).Scan(&answerRows); err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM test_results WHERE user_id='u1'`).Scan(&resultRows); err != nil {
		t.Fatalf("count results: %v", err)
	}
	if answerRows != 2 || resultRows != 1 {
		t.Fatalf("expected 2 answer rows and 1 result row, got %d and %d", answerRows, resultRows)
	}

	// A second attempt accumulates on the server's score.
	sess2, err := session.New(quiz, &serviceSubmitter{service: service, userID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	_ = sess2.SetSingle("q1", "o2")
	if err := sess2.Submit(ctx); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if sess2.UpdatedScore() != 5 {
		t.Fatalf("expected cumulative 5, got %d", sess2.UpdatedScore())
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
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
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
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

func seedQuiz(t *testing.T, ctx context.Context, dsn string, quiz domain.Quiz) {
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

	data, err := json.Marshal(quiz)
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO quizzes (id, data) VALUES (? , ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, quiz.ID, string(data)); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Capitals",
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
				ID: "q2", Prompt: "Type the capital of France", Kind: domain.KindText, Points: 1,
				ExpectedAnswer: "paris",
			},
		},
	}
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
