// Package app contains the quiz service use cases: serving sanitized quiz
// content and accepting answer submissions.
package app

import (
	"context"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/Arnur12345/quizmaker-task/internal/scoring"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ResultStore persists a user's submitted answers and attempt result.
type ResultStore interface {
	SaveSubmission(ctx context.Context, userID string, sub domain.SubmitRequest, score int) error
}

// ScoreStore applies an attempt's score to the user's cumulative total and
// returns the updated value.
type ScoreStore interface {
	AddScore(ctx context.Context, userID string, delta int) (int, error)
}

// QuizService contains the server-side quiz use cases.
type QuizService struct {
	quizzes QuizRepository
	results ResultStore
	scores  ScoreStore
}

func NewQuizService(quizzes QuizRepository, results ResultStore, scores ScoreStore) *QuizService {
	return &QuizService{quizzes: quizzes, results: results, scores: scores}
}

// GetQuiz loads the full quiz, including the answer key.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// PublicQuiz loads the quiz in the sanitized wire shape served to takers:
// correctness flags stripped, text answer keys omitted.
func (s *QuizService) PublicQuiz(ctx context.Context, quizID string) (domain.QuizPayload, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizPayload{}, err
	}
	return domain.QuizToPayload(quiz, false), nil
}

// SubmitAnswers validates a submission against the quiz, rescores it with the
// server's answer key, persists the answers and result, and applies the score
// to the user's cumulative total. The client's total_score is advisory only;
// the recomputed value is what counts.
func (s *QuizService) SubmitAnswers(ctx context.Context, userID string, sub domain.SubmitRequest) (domain.SubmitResponse, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return domain.SubmitResponse{}, err
	}

	answers := make(map[string]domain.Answer, len(sub.Answers))
	for _, answer := range sub.Answers {
		question, ok := quiz.QuestionByID(answer.QuestionID)
		if !ok {
			return domain.SubmitResponse{}, domain.ErrQuestionNotFound
		}
		for _, optionID := range answer.OptionIDs {
			if !hasOption(question, optionID) {
				return domain.SubmitResponse{}, domain.ErrOptionNotFound
			}
		}
		answers[question.ID] = wireToAnswer(question, answer)
	}

	result, err := scoring.Score(quiz, answers)
	if err != nil {
		return domain.SubmitResponse{}, err
	}

	if err := s.results.SaveSubmission(ctx, userID, sub, result.TotalPoints); err != nil {
		return domain.SubmitResponse{}, err
	}

	updated, err := s.scores.AddScore(ctx, userID, result.TotalPoints)
	if err != nil {
		return domain.SubmitResponse{}, err
	}
	return domain.SubmitResponse{UpdatedScore: updated}, nil
}

func hasOption(question domain.Question, optionID string) bool {
	for _, option := range question.Options {
		if option.ID == optionID {
			return true
		}
	}
	return false
}

// wireToAnswer rebuilds the tagged answer value from its wire shape using the
// question's kind.
func wireToAnswer(question domain.Question, answer domain.AnswerSubmission) domain.Answer {
	switch question.Kind {
	case domain.KindSingle:
		out := domain.Answer{Kind: domain.KindSingle}
		if len(answer.OptionIDs) > 0 {
			out.OptionID = answer.OptionIDs[0]
		}
		return out
	case domain.KindMultiple:
		return domain.Answer{Kind: domain.KindMultiple, OptionIDs: answer.OptionIDs}
	case domain.KindText:
		out := domain.Answer{Kind: domain.KindText}
		if answer.TextAnswer != nil {
			out.Text = *answer.TextAnswer
		}
		return out
	}
	return domain.Answer{}
}
