package memory

import (
	"context"
	"sync"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
)

// ScoreStore keeps cumulative user scores in memory.
type ScoreStore struct {
	mu     sync.Mutex
	scores map[string]int
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{scores: make(map[string]int)}
}

// AddScore adds delta to the user's total and returns the new value.
func (s *ScoreStore) AddScore(_ context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[userID] += delta
	return s.scores[userID], nil
}

// Score returns the user's current total.
func (s *ScoreStore) Score(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores[userID]
}

// SavedSubmission is one persisted attempt.
type SavedSubmission struct {
	UserID  string
	Request domain.SubmitRequest
	Score   int
}

// ResultStore records submissions in memory.
type ResultStore struct {
	mu          sync.Mutex
	submissions []SavedSubmission
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) SaveSubmission(_ context.Context, userID string, sub domain.SubmitRequest, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, SavedSubmission{UserID: userID, Request: sub, Score: score})
	return nil
}

// Submissions returns a copy of everything saved so far.
func (s *ResultStore) Submissions() []SavedSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedSubmission, len(s.submissions))
	copy(out, s.submissions)
	return out
}
