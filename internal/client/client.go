// Package client talks to the quiz service REST API with bearer-token auth.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/domain"
)

// Client is a thin HTTP client for the quiz service. It performs a single
// request per call; retry policy belongs to the caller.
type Client struct {
	baseURL string
	token   string
	user    string
	httpc   *http.Client
}

// New creates a client for the service at baseURL (no trailing slash).
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient is for tests that need a custom transport.
func NewWithHTTPClient(baseURL, token string, httpc *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, httpc: httpc}
}

// WithUser sets the user identity sent with each request.
func (c *Client) WithUser(userID string) *Client {
	c.user = userID
	return c
}

// GetQuiz fetches and normalizes the quiz payload.
func (c *Client) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quiz/"+quizID, nil)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("build quiz request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("fetch quiz: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Quiz{}, domain.ErrQuizNotFound
	default:
		return domain.Quiz{}, fmt.Errorf("fetch quiz: %s", resp.Status)
	}

	var payload domain.QuizPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return domain.ParseQuiz(payload)
}

// SubmitAnswers posts the serialized answers and returns the server's
// authoritative cumulative score. It satisfies session.Submitter.
func (c *Client) SubmitAnswers(ctx context.Context, submission domain.SubmitRequest) (domain.SubmitResponse, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return domain.SubmitResponse{}, fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/quiz/submit-answers", bytes.NewReader(body))
	if err != nil {
		return domain.SubmitResponse{}, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.SubmitResponse{}, fmt.Errorf("submit answers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SubmitResponse{}, fmt.Errorf("submit answers: %s", resp.Status)
	}

	var out domain.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.SubmitResponse{}, fmt.Errorf("decode submit response: %w", err)
	}
	return out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.user != "" {
		req.Header.Set("X-User-ID", c.user)
	}
}
