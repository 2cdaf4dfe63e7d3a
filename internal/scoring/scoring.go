// Package scoring computes quiz results from a frozen set of answers. It has
// no side effects and may be invoked any number of times; identical inputs
// yield identical results.
package scoring

import (
	"math"
	"strings"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
)

// Score evaluates answers against the quiz's answer key and aggregates the
// result. Questions without a stored answer count as incorrect. Returns
// domain.ErrEmptyQuiz when the quiz has no questions.
func Score(quiz domain.Quiz, answers map[string]domain.Answer) (domain.Result, error) {
	if len(quiz.Questions) == 0 {
		return domain.Result{}, domain.ErrEmptyQuiz
	}

	result := domain.Result{
		TotalQuestions:  len(quiz.Questions),
		MaxPoints:       quiz.MaxPoints(),
		QuestionResults: make([]domain.QuestionResult, 0, len(quiz.Questions)),
	}

	for _, question := range quiz.Questions {
		answer := answers[question.ID]
		correct := scoreQuestion(question, answer)

		awarded := 0
		if correct {
			result.CorrectAnswers++
			awarded = question.Points
			result.TotalPoints += awarded
		}
		result.QuestionResults = append(result.QuestionResults, domain.QuestionResult{
			QuestionID: question.ID,
			Answer:     answer,
			Correct:    correct,
			Points:     awarded,
		})
	}

	result.IncorrectAnswers = result.TotalQuestions - result.CorrectAnswers
	result.PercentageCorrect = roundPercent(result.CorrectAnswers, result.TotalQuestions)
	return result, nil
}

func scoreQuestion(question domain.Question, answer domain.Answer) bool {
	switch question.Kind {
	case domain.KindSingle:
		return scoreSingle(question, answer)
	case domain.KindMultiple:
		return scoreMultiple(question, answer)
	case domain.KindText:
		return scoreText(question, answer)
	}
	return false
}

// scoreSingle is correct iff the stored option is the unique option flagged
// correct. A question with no correct option can never score; that is an
// authoring data error, not a runtime fault.
func scoreSingle(question domain.Question, answer domain.Answer) bool {
	if answer.OptionID == "" {
		return false
	}
	for _, opt := range question.Options {
		if opt.Correct {
			return opt.ID == answer.OptionID
		}
	}
	return false
}

// scoreMultiple requires exact set equality with the correct-option set.
// Partial credit is not awarded.
func scoreMultiple(question domain.Question, answer domain.Answer) bool {
	key := question.CorrectOptionIDs()
	if len(key) == 0 || len(answer.OptionIDs) != len(key) {
		return false
	}
	for _, id := range key {
		if !answer.HasOption(id) {
			return false
		}
	}
	return true
}

// scoreText compares case-folded, whitespace-trimmed strings. No fuzzy
// matching, no partial credit.
func scoreText(question domain.Question, answer domain.Answer) bool {
	expected := strings.ToLower(strings.TrimSpace(question.ExpectedAnswer))
	if expected == "" {
		return false
	}
	given := strings.ToLower(strings.TrimSpace(answer.Text))
	return given == expected
}

// roundPercent computes round-half-up(100 * correct / total).
func roundPercent(correct, total int) int {
	return int(math.Floor(100*float64(correct)/float64(total) + 0.5))
}
