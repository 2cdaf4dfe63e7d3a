package domain

// QuestionResult reports the outcome of a single question.
type QuestionResult struct {
	QuestionID string `json:"questionId"`
	Answer     Answer `json:"answer"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points"` // awarded points, 0 when incorrect
}

// Result summarizes one completed quiz attempt.
type Result struct {
	TotalQuestions    int              `json:"totalQuestions"`
	CorrectAnswers    int              `json:"correctAnswers"`
	IncorrectAnswers  int              `json:"incorrectAnswers"`
	TotalPoints       int              `json:"totalPoints"`
	MaxPoints         int              `json:"maxPoints"`
	PercentageCorrect int              `json:"percentageCorrect"`
	QuestionResults   []QuestionResult `json:"questionResults"`
}
