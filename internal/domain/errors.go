package domain

import "errors"

var (
	// ErrMalformedPayload is returned when server quiz data cannot be normalized.
	ErrMalformedPayload = errors.New("malformed quiz payload")
	// ErrEmptyQuiz is returned when a quiz carries zero questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrIndexOutOfRange is returned for navigation outside the question bounds.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrKindMismatch is returned when an answer operation does not match the question's kind.
	ErrKindMismatch = errors.New("answer does not match question kind")
	// ErrSubmissionFailed wraps network or server errors during answer submission.
	ErrSubmissionFailed = errors.New("answer submission failed")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid.
	ErrOptionNotFound = errors.New("option not found")
)
