package postgres

import (
	"context"
	"fmt"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultStore persists submitted answers and attempt results in Postgres.
// Each selected option gets its own user_answers row; a text answer gets one
// row with option_id NULL. The attempt summary lands in test_results.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveSubmission(ctx context.Context, userID string, sub domain.SubmitRequest, score int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submission tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO test_results (id, user_id, quiz_id, score) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), userID, sub.QuizID, score)
	if err != nil {
		return fmt.Errorf("insert test result: %w", err)
	}

	for _, answer := range sub.Answers {
		if answer.TextAnswer != nil {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_answers (id, user_id, question_id, option_id, text_answer) VALUES ($1, $2, $3, NULL, $4)`,
				uuid.NewString(), userID, answer.QuestionID, *answer.TextAnswer)
			if err != nil {
				return fmt.Errorf("insert text answer: %w", err)
			}
		}
		for _, optionID := range answer.OptionIDs {
			_, err = tx.Exec(ctx,
				`INSERT INTO user_answers (id, user_id, question_id, option_id, text_answer) VALUES ($1, $2, $3, $4, NULL)`,
				uuid.NewString(), userID, answer.QuestionID, optionID)
			if err != nil {
				return fmt.Errorf("insert option answer: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}
