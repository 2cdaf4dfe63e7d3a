// Package session drives a single quiz attempt: it owns the per-question
// answer state, the countdown that force-submits on expiry, navigation over
// the question sequence, and the single-use submission transition.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/Arnur12345/quizmaker-task/internal/scoring"
)

// Status enumerates the session lifecycle.
type Status string

const (
	// StatusLoading means the quiz payload is still being fetched.
	StatusLoading Status = "LOADING"
	// StatusInProgress means the user is answering questions.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusSubmitting means a submission is in flight; answers are frozen.
	StatusSubmitting Status = "SUBMITTING"
	// StatusCompleted means the server acknowledged the submission.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed means the submission errored; answers are preserved and a
	// retry is permitted.
	StatusFailed Status = "FAILED"
)

// DefaultDuration is the countdown applied when none is configured.
const DefaultDuration = 15 * time.Minute

// Submitter sends serialized answers to the quiz service.
type Submitter interface {
	SubmitAnswers(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error)
}

// Session is one user's attempt at one quiz. It owns its quiz, answers, and
// countdown exclusively; nothing is shared across sessions. A mutex stands in
// for the cooperative scheduling of the surrounding UI: a timer tick and a
// user input may arrive in either order, so the submitting transition below
// is a hard guard, not a convention.
type Session struct {
	mu        sync.Mutex
	quiz      domain.Quiz
	answers   map[string]domain.Answer
	index     int
	status    Status
	timer     *Countdown
	submitter Submitter

	// frozen at the first submit trigger; a retry reuses it verbatim
	request *domain.SubmitRequest
	result  *domain.Result

	updatedScore int
	lastErr      error
}

// New creates an in-progress session over a loaded quiz. Returns
// domain.ErrEmptyQuiz if the quiz has no questions.
func New(quiz domain.Quiz, submitter Submitter, duration time.Duration) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, domain.ErrEmptyQuiz
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	answers := make(map[string]domain.Answer, len(quiz.Questions))
	for _, question := range quiz.Questions {
		answers[question.ID] = domain.EmptyAnswer(question.Kind)
	}

	return &Session{
		quiz:      quiz,
		answers:   answers,
		status:    StatusInProgress,
		timer:     NewCountdown(duration),
		submitter: submitter,
	}, nil
}

// Quiz returns the question sequence the session was loaded with.
func (s *Session) Quiz() domain.Quiz {
	return s.quiz
}

// Status returns the current session status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentIndex returns the index of the displayed question.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// QuestionCount returns the number of questions.
func (s *Session) QuestionCount() int {
	return len(s.quiz.Questions)
}

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.index]
}

// RemainingSeconds returns the countdown's seconds left.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Remaining()
}

// TimerState returns the countdown state.
func (s *Session) TimerState() TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.State()
}

// Answer returns the stored answer for a question id.
func (s *Session) Answer(questionID string) (domain.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answer, ok := s.answers[questionID]
	return answer, ok
}

// SetSingle replaces the answer for a single-choice question. Outside
// IN_PROGRESS it is a defensive no-op so a race against a forced submission
// cannot corrupt frozen state.
func (s *Session) SetSingle(questionID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, err := s.mutableQuestionLocked(questionID, domain.KindSingle)
	if err != nil || question == nil {
		return err
	}
	s.answers[questionID] = domain.Answer{Kind: domain.KindSingle, OptionID: optionID}
	return nil
}

// ToggleMultiple adds the option to a multiple-choice answer if absent and
// removes it if present.
func (s *Session) ToggleMultiple(questionID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, err := s.mutableQuestionLocked(questionID, domain.KindMultiple)
	if err != nil || question == nil {
		return err
	}
	s.answers[questionID] = s.answers[questionID].WithOptionToggled(optionID)
	return nil
}

// SetText replaces the answer for a text question.
func (s *Session) SetText(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, err := s.mutableQuestionLocked(questionID, domain.KindText)
	if err != nil || question == nil {
		return err
	}
	s.answers[questionID] = domain.Answer{Kind: domain.KindText, Text: value}
	return nil
}

// mutableQuestionLocked validates an answer mutation. It returns (nil, nil)
// when the session is not accepting input, turning the call into a no-op.
func (s *Session) mutableQuestionLocked(questionID string, kind domain.Kind) (*domain.Question, error) {
	question, ok := s.quiz.QuestionByID(questionID)
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	if question.Kind != kind {
		return nil, domain.ErrKindMismatch
	}
	if s.status != StatusInProgress {
		return nil, nil
	}
	return &question, nil
}

// IsAnswered reports whether the question has a non-empty answer.
func (s *Session) IsAnswered(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[questionID].Answered()
}

// IsAnsweredIndex reports answered status by question index; out-of-range
// indices report false.
func (s *Session) IsAnsweredIndex(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.quiz.Questions) {
		return false
	}
	return s.answers[s.quiz.Questions[index].ID].Answered()
}

// Progress returns the answered flag for every question index, for progress
// display. It has no effect on submission eligibility; a user may submit with
// unanswered questions.
func (s *Session) Progress() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	answered := make([]bool, len(s.quiz.Questions))
	for i, question := range s.quiz.Questions {
		answered[i] = s.answers[question.ID].Answered()
	}
	return answered
}

// GoTo moves to the given question index. Returns domain.ErrIndexOutOfRange
// outside [0, QuestionCount).
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.quiz.Questions) {
		return fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}
	if s.status != StatusInProgress {
		return nil
	}
	s.index = index
	return nil
}

// Previous moves back one question; at index 0 it does nothing.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusInProgress && s.index > 0 {
		s.index--
	}
}

// Next moves forward one question. At the last index it triggers submission
// instead of navigating and reports submitted=true.
func (s *Session) Next(ctx context.Context) (submitted bool, err error) {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return false, nil
	}
	if s.index < len(s.quiz.Questions)-1 {
		s.index++
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()
	return true, s.Submit(ctx)
}

// Tick advances the countdown by one second and force-submits on expiry.
// The expiry transition fires at most once; the submitting guard absorbs any
// tick racing a manual submit.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return nil
	}
	expired := s.timer.Tick()
	s.mu.Unlock()

	if !expired {
		return nil
	}
	return s.Submit(ctx)
}

// Run drives the countdown from a wall-clock ticker until the session leaves
// IN_PROGRESS or ctx is done. On ctx cancellation the countdown is stopped so
// it cannot fire against torn-down state.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Abandon()
			return
		case <-ticker.C:
			_ = s.Tick(ctx)
			if s.Status() != StatusInProgress {
				return
			}
		}
	}
}

// Abandon cancels the countdown when the user leaves the session without
// submitting.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Cancel()
}

// Submit freezes the answers and sends them to the quiz service. Concurrent
// or duplicate triggers (user action and timer expiry in the same slice)
// collapse into exactly one network call: only the IN_PROGRESS -> SUBMITTING
// transition proceeds, every later trigger is ignored.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusSubmitting
	s.timer.Cancel()

	if s.request == nil {
		req, result := s.buildRequestLocked()
		s.request = &req
		s.result = &result
	}
	req := *s.request
	s.mu.Unlock()

	return s.send(ctx, req)
}

// Retry re-sends the already-serialized answers after a failed submission.
// It is only valid from FAILED; the countdown does not resume.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusFailed || s.request == nil {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusSubmitting
	req := *s.request
	s.mu.Unlock()

	return s.send(ctx, req)
}

func (s *Session) send(ctx context.Context, req domain.SubmitRequest) error {
	resp, err := s.submitter.SubmitAnswers(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusFailed
		s.lastErr = fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
		return s.lastErr
	}
	s.status = StatusCompleted
	s.updatedScore = resp.UpdatedScore
	s.lastErr = nil
	return nil
}

// buildRequestLocked serializes every answer into the wire shape: option ids
// for choice questions, a text pointer for text questions, never both.
// The locally computed result rides along as the optimistic total_score.
func (s *Session) buildRequestLocked() (domain.SubmitRequest, domain.Result) {
	req := domain.SubmitRequest{
		QuizID:  s.quiz.ID,
		Answers: make([]domain.AnswerSubmission, 0, len(s.quiz.Questions)),
	}

	for _, question := range s.quiz.Questions {
		answer := s.answers[question.ID]
		sub := domain.AnswerSubmission{
			QuestionID: question.ID,
			OptionIDs:  []string{},
		}
		switch question.Kind {
		case domain.KindSingle:
			if answer.OptionID != "" {
				sub.OptionIDs = []string{answer.OptionID}
			}
		case domain.KindMultiple:
			sub.OptionIDs = append(sub.OptionIDs, answer.OptionIDs...)
		case domain.KindText:
			text := answer.Text
			sub.TextAnswer = &text
		}
		req.Answers = append(req.Answers, sub)
	}

	// Scoring cannot fail here: New rejects empty quizzes.
	result, _ := scoring.Score(s.quiz, s.answers)
	req.TotalScore = result.TotalPoints
	return req, result
}

// Result returns the locally computed result. It is populated once a submit
// trigger has serialized the answers; ok is false before that. The local
// score is advisory; UpdatedScore carries the server's authoritative value.
func (s *Session) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// UpdatedScore returns the cumulative score confirmed by the server. It is
// only meaningful once the session is COMPLETED.
func (s *Session) UpdatedScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedScore
}

// Err returns the last submission error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
