package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/Arnur12345/quizmaker-task/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if quiz.Questions[1].ExpectedAnswer != "paris" {
		t.Fatalf("text answer key lost: %+v", quiz.Questions[1])
	}

	// Second call should hit cache, loader not incremented, key intact.
	quiz, err = repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if quiz.Questions[1].ExpectedAnswer != "paris" {
		t.Fatalf("text answer key lost in cache round trip: %+v", quiz.Questions[1])
	}
}

func TestQuizRepositoryMissPropagates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuizRepository(newClient(mr), memory.NewStaticQuizLoader(nil), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestScoreStoreAccumulates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewScoreStore(newClient(mr))
	ctx := context.Background()

	total, err := store.AddScore(ctx, "u1", 3)
	if err != nil || total != 3 {
		t.Fatalf("expected 3, got %d err=%v", total, err)
	}
	total, err = store.AddScore(ctx, "u1", 4)
	if err != nil || total != 7 {
		t.Fatalf("expected 7, got %d err=%v", total, err)
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{
				ID: "q1", Prompt: "What is 2 + 2?", Kind: domain.KindSingle, Points: 1,
				Options: []domain.Option{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", Correct: true},
				},
			},
			{
				ID: "q2", Prompt: "Capital of France?", Kind: domain.KindText, Points: 2,
				ExpectedAnswer: "paris",
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
