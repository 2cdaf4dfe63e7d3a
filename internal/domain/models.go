package domain

// Kind is a question's answer format, which dictates the shape of its Answer.
type Kind string

const (
	// KindSingle expects exactly one selected option.
	KindSingle Kind = "SINGLE"
	// KindMultiple expects a set of selected options.
	KindMultiple Kind = "MULTIPLE"
	// KindText expects a free-form text answer.
	KindText Kind = "TEXT"
)

// Option represents a possible answer for a choice question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is a normalized quiz question. For KindText the answer key lives in
// ExpectedAnswer and Options is empty; for choice kinds the key is the set of
// options flagged Correct.
type Question struct {
	ID             string   `json:"id"`
	Prompt         string   `json:"prompt"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Kind           Kind     `json:"kind"`
	Points         int      `json:"points"` // defaults to 1 if zero
	Options        []Option `json:"options,omitempty"`
	ExpectedAnswer string   `json:"expectedAnswer,omitempty"`
}

// CorrectOptionIDs returns the identities of the options flagged correct.
func (q Question) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.Correct {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// Quiz is an ordered collection of questions. The order is fixed at load and
// never changes during a session.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CategoryID  string     `json:"categoryId,omitempty"`
	Questions   []Question `json:"questions"`
}

// MaxPoints is the sum of all question point values.
func (q Quiz) MaxPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// QuestionByID returns the question with the given id, if present.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}
