package domain

import "strings"

// Wire question type codes used by the quiz service API.
const (
	wireSingle = "SINGLE"
	wireMulti  = "MULTIPLE"
	wireText   = "TEXT_ANSWER"
)

// OptionPayload is the wire shape of an option.
type OptionPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionPayload is the wire shape of a question.
type QuestionPayload struct {
	ID           string          `json:"id"`
	Question     string          `json:"question"`
	QuestionType string          `json:"question_type"`
	Points       int             `json:"points"`
	ImageURL     string          `json:"image_url,omitempty"`
	Options      []OptionPayload `json:"options"`
}

// QuizPayload is the wire shape returned by GET /quiz/{id}.
type QuizPayload struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CategoryID  string            `json:"category_id"`
	Questions   []QuestionPayload `json:"questions"`
}

// AnswerSubmission is one answer in the wire shape expected by
// POST /quiz/submit-answers. OptionIDs is empty for text answers and
// TextAnswer is nil for choice answers.
type AnswerSubmission struct {
	QuestionID string   `json:"question_id"`
	OptionIDs  []string `json:"option_ids"`
	TextAnswer *string  `json:"text_answer"`
}

// SubmitRequest is the body of POST /quiz/submit-answers. TotalScore carries
// the locally computed score; the server's response remains authoritative.
type SubmitRequest struct {
	QuizID     string             `json:"quiz_id"`
	Answers    []AnswerSubmission `json:"answers"`
	TotalScore int                `json:"total_score"`
}

// SubmitResponse is the authoritative reply to a submission.
type SubmitResponse struct {
	UpdatedScore int `json:"updated_score"`
}

// ParseQuiz normalizes a raw quiz payload into the value model. Question type
// codes map onto Kind, absent point values default to 1, and a text question's
// options, when present, are consumed as the answer key: the first entry
// becomes ExpectedAnswer and the options are dropped.
//
// Returns ErrEmptyQuiz for a quiz with no questions and ErrMalformedPayload
// for an unknown question type or a choice question with zero options.
func ParseQuiz(payload QuizPayload) (Quiz, error) {
	if len(payload.Questions) == 0 {
		return Quiz{}, ErrEmptyQuiz
	}

	quiz := Quiz{
		ID:          payload.ID,
		Title:       payload.Title,
		Description: payload.Description,
		CategoryID:  payload.CategoryID,
		Questions:   make([]Question, 0, len(payload.Questions)),
	}

	for _, raw := range payload.Questions {
		question := Question{
			ID:       raw.ID,
			Prompt:   raw.Question,
			ImageURL: raw.ImageURL,
			Points:   raw.Points,
		}
		if question.Points <= 0 {
			question.Points = 1
		}

		switch raw.QuestionType {
		case wireSingle:
			question.Kind = KindSingle
		case wireMulti:
			question.Kind = KindMultiple
		case wireText:
			question.Kind = KindText
		default:
			return Quiz{}, ErrMalformedPayload
		}

		if question.Kind == KindText {
			// The source data stores the expected text answer as the first
			// option; lift it into an explicit field.
			if len(raw.Options) > 0 {
				question.ExpectedAnswer = strings.TrimSpace(raw.Options[0].Name)
			}
		} else {
			if len(raw.Options) == 0 {
				return Quiz{}, ErrMalformedPayload
			}
			question.Options = make([]Option, 0, len(raw.Options))
			for _, opt := range raw.Options {
				question.Options = append(question.Options, Option{
					ID:      opt.ID,
					Text:    opt.Name,
					Correct: opt.IsCorrect,
				})
			}
		}

		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz, nil
}

// QuizToPayload serializes a quiz back to the wire shape. When includeKey is
// false the correctness flags are stripped and text answer keys are omitted,
// producing the sanitized view served to quiz takers.
func QuizToPayload(quiz Quiz, includeKey bool) QuizPayload {
	payload := QuizPayload{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		CategoryID:  quiz.CategoryID,
		Questions:   make([]QuestionPayload, 0, len(quiz.Questions)),
	}

	for _, question := range quiz.Questions {
		raw := QuestionPayload{
			ID:       question.ID,
			Question: question.Prompt,
			Points:   question.Points,
			ImageURL: question.ImageURL,
		}
		switch question.Kind {
		case KindSingle:
			raw.QuestionType = wireSingle
		case KindMultiple:
			raw.QuestionType = wireMulti
		case KindText:
			raw.QuestionType = wireText
		}

		for _, opt := range question.Options {
			raw.Options = append(raw.Options, OptionPayload{
				ID:        opt.ID,
				Name:      opt.Text,
				IsCorrect: includeKey && opt.Correct,
			})
		}
		if question.Kind == KindText && includeKey && question.ExpectedAnswer != "" {
			raw.Options = append(raw.Options, OptionPayload{Name: question.ExpectedAnswer})
		}

		payload.Questions = append(payload.Questions, raw)
	}

	return payload
}
