// Package http exposes the quiz service over REST and hosts live quiz
// sessions over WebSocket.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Arnur12345/quizmaker-task/internal/app"
	"github.com/Arnur12345/quizmaker-task/internal/domain"
)

// Handler serves the REST endpoints consumed by quiz takers.
type Handler struct {
	service *app.QuizService
	token   string
}

// NewHandler wires the REST surface. An empty token disables auth (demo mode).
func NewHandler(service *app.QuizService, token string) *Handler {
	return &Handler{service: service, token: token}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quiz/{id}", h.getQuiz)
	mux.HandleFunc("POST /quiz/submit-answers", h.submitAnswers)
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	payload, err := h.service.PublicQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) submitAnswers(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var sub domain.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid submission body"})
		return
	}

	resp, err := h.service.SubmitAnswers(r.Context(), userID(r), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// authorized checks the bearer token when one is configured.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if h.token == "" {
		return true
	}
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) || strings.TrimPrefix(auth, prefix) != h.token {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid or missing token"})
		return false
	}
	return true
}

// userID resolves the acting user. Full identity handling lives outside this
// service; callers pass X-User-ID and anonymous is the fallback.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "quiz not found"})
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrEmptyQuiz), errors.Is(err, domain.ErrMalformedPayload):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
