package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/app"
	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/Arnur12345/quizmaker-task/internal/session"
	"github.com/gorilla/websocket"
)

// WSHandler hosts one live quiz session per connection: it streams the
// sanitized quiz, one countdown tick per second, and the final result, and
// accepts answer/navigation/submit messages.
type WSHandler struct {
	service  *app.QuizService
	duration time.Duration
	upgrader websocket.Upgrader

	// tick interval, overridable in tests
	tickEvery time.Duration
}

func NewWSHandler(service *app.QuizService, duration time.Duration) *WSHandler {
	return &WSHandler{
		service:  service,
		duration: duration,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tickEvery: time.Second,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string  `json:"questionId"`
	OptionID   string  `json:"optionId,omitempty"`
	Text       *string `json:"text,omitempty"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type tickPayload struct {
	RemainingSeconds int    `json:"remainingSeconds"`
	CurrentIndex     int    `json:"currentIndex"`
	Answered         []bool `json:"answered"`
}

type resultPayload struct {
	Result       domain.Result `json:"result"`
	UpdatedScore int           `json:"updatedScore"`
	Forced       bool          `json:"forced"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type submitterFunc func(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error)

func (f submitterFunc) SubmitAnswers(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error) {
	return f(ctx, req)
}

// ServeWS upgrades the request and drives a session until it completes or the
// client disconnects. Disconnecting mid-session abandons it and stops the
// countdown deterministically.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	quiz, err := h.service.GetQuiz(ctx, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	submit := submitterFunc(func(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResponse, error) {
		return h.service.SubmitAnswers(ctx, userID, req)
	})
	sess, err := session.New(quiz, submit, h.duration)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer sess.Abandon()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var resultOnce sync.Once
	sendResult := func(forced bool) {
		resultOnce.Do(func() {
			result, ok := sess.Result()
			if !ok {
				return
			}
			msg := outboundMessage[any]{Type: "result", Payload: resultPayload{
				Result:       result,
				UpdatedScore: sess.UpdatedScore(),
				Forced:       forced,
			}}
			select {
			case send <- msg:
			case <-closeSignals:
			}
		})
	}

	// The countdown runs here rather than in session.Run so expiry can push
	// the result to the client as soon as the forced submission lands.
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(h.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-closeSignals:
				return
			case <-ticker.C:
				_ = sess.Tick(context.Background())
				switch sess.Status() {
				case session.StatusInProgress:
					select {
					case send <- outboundMessage[any]{Type: "tick", Payload: tickPayload{
						RemainingSeconds: sess.RemainingSeconds(),
						CurrentIndex:     sess.CurrentIndex(),
						Answered:         sess.Progress(),
					}}:
					case <-closeSignals:
						return
					}
				case session.StatusCompleted:
					sendResult(true)
					return
				case session.StatusFailed:
					select {
					case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "submission failed, send submit to retry"}}:
					case <-closeSignals:
					}
					return
				}
			}
		}
	}()

	send <- outboundMessage[any]{Type: "quiz", Payload: domain.QuizToPayload(quiz, false)}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(ctx, sess, send, inbound, sendResult)
		if sess.Status() == session.StatusCompleted {
			break
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, sess *session.Session, send chan outboundMessage[any], inbound inboundMessage, sendResult func(bool)) {
	fail := func(msg string) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
	}

	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid answer payload")
			return
		}
		if err := h.applyAnswer(sess, payload); err != nil {
			fail(err.Error())
		}
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid goto payload")
			return
		}
		if err := sess.GoTo(payload.Index); err != nil {
			fail(err.Error())
		}
	case "previous":
		sess.Previous()
	case "next":
		submitted, err := sess.Next(ctx)
		if err != nil {
			fail(err.Error())
			return
		}
		if submitted {
			sendResult(false)
		}
	case "submit":
		var err error
		if sess.Status() == session.StatusFailed {
			err = sess.Retry(ctx)
		} else {
			err = sess.Submit(ctx)
		}
		if err != nil {
			fail(err.Error())
			return
		}
		sendResult(false)
	default:
		fail("unsupported message type")
	}
}

// applyAnswer routes the payload to the store operation matching the
// question's kind.
func (h *WSHandler) applyAnswer(sess *session.Session, payload answerPayload) error {
	question, ok := sess.Quiz().QuestionByID(payload.QuestionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	switch question.Kind {
	case domain.KindSingle:
		return sess.SetSingle(payload.QuestionID, payload.OptionID)
	case domain.KindMultiple:
		return sess.ToggleMultiple(payload.QuestionID, payload.OptionID)
	case domain.KindText:
		text := ""
		if payload.Text != nil {
			text = *payload.Text
		}
		return sess.SetText(payload.QuestionID, text)
	}
	return domain.ErrKindMismatch
}
