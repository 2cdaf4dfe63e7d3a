package domain

import (
	"errors"
	"testing"
)

func samplePayload() QuizPayload {
	return QuizPayload{
		ID:         "quiz-1",
		Title:      "Capitals",
		CategoryID: "cat-1",
		Questions: []QuestionPayload{
			{
				ID: "q1", Question: "Capital of France?", QuestionType: "SINGLE",
				Options: []OptionPayload{
					{ID: "a", Name: "London"},
					{ID: "b", Name: "Paris", IsCorrect: true},
				},
			},
			{
				ID: "q2", Question: "Pick the EU capitals", QuestionType: "MULTIPLE", Points: 3,
				Options: []OptionPayload{
					{ID: "o1", Name: "Berlin", IsCorrect: true},
					{ID: "o2", Name: "Oslo"},
				},
			},
			{
				ID: "q3", Question: "Type the capital of Italy", QuestionType: "TEXT_ANSWER", Points: 2,
				Options: []OptionPayload{{ID: "k", Name: " Rome "}},
			},
		},
	}
}

func TestParseQuizNormalizes(t *testing.T) {
	quiz, err := ParseQuiz(samplePayload())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(quiz.Questions))
	}

	q1 := quiz.Questions[0]
	if q1.Kind != KindSingle {
		t.Fatalf("expected SINGLE, got %s", q1.Kind)
	}
	if q1.Points != 1 {
		t.Fatalf("absent points must default to 1, got %d", q1.Points)
	}
	if len(q1.Options) != 2 || !q1.Options[1].Correct {
		t.Fatalf("options lost in normalization: %+v", q1.Options)
	}

	q2 := quiz.Questions[1]
	if q2.Kind != KindMultiple || q2.Points != 3 {
		t.Fatalf("unexpected q2 %+v", q2)
	}

	q3 := quiz.Questions[2]
	if q3.Kind != KindText {
		t.Fatalf("TEXT_ANSWER must map to KindText, got %s", q3.Kind)
	}
	if q3.ExpectedAnswer != "Rome" {
		t.Fatalf("expected answer lifted from first option, got %q", q3.ExpectedAnswer)
	}
	if len(q3.Options) != 0 {
		t.Fatalf("text questions must not keep options, got %+v", q3.Options)
	}
}

func TestParseQuizRejectsBadPayloads(t *testing.T) {
	empty := QuizPayload{ID: "quiz-1"}
	if _, err := ParseQuiz(empty); !errors.Is(err, ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}

	noOptions := QuizPayload{
		ID: "quiz-1",
		Questions: []QuestionPayload{
			{ID: "q1", QuestionType: "SINGLE"},
		},
	}
	if _, err := ParseQuiz(noOptions); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for optionless SINGLE, got %v", err)
	}

	badType := QuizPayload{
		ID: "quiz-1",
		Questions: []QuestionPayload{
			{ID: "q1", QuestionType: "ESSAY", Options: []OptionPayload{{ID: "a"}}},
		},
	}
	if _, err := ParseQuiz(badType); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for unknown type, got %v", err)
	}
}

func TestParseQuizAllowsTextWithoutKey(t *testing.T) {
	payload := QuizPayload{
		ID: "quiz-1",
		Questions: []QuestionPayload{
			{ID: "q1", QuestionType: "TEXT_ANSWER"},
		},
	}
	quiz, err := ParseQuiz(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if quiz.Questions[0].ExpectedAnswer != "" {
		t.Fatalf("expected empty answer key, got %q", quiz.Questions[0].ExpectedAnswer)
	}
}

func TestQuizToPayloadSanitizes(t *testing.T) {
	quiz, err := ParseQuiz(samplePayload())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	public := QuizToPayload(quiz, false)
	for _, question := range public.Questions {
		for _, opt := range question.Options {
			if opt.IsCorrect {
				t.Fatalf("sanitized payload leaked answer key: %+v", opt)
			}
		}
		if question.QuestionType == "TEXT_ANSWER" && len(question.Options) != 0 {
			t.Fatalf("sanitized text question leaked expected answer: %+v", question.Options)
		}
	}

	// The keyed form round-trips through ParseQuiz.
	keyed := QuizToPayload(quiz, true)
	again, err := ParseQuiz(keyed)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if again.Questions[2].ExpectedAnswer != "Rome" {
		t.Fatalf("answer key lost in round trip: %q", again.Questions[2].ExpectedAnswer)
	}
}

func TestAnswerAnswered(t *testing.T) {
	cases := []struct {
		name   string
		answer Answer
		want   bool
	}{
		{"empty single", EmptyAnswer(KindSingle), false},
		{"picked single", Answer{Kind: KindSingle, OptionID: "a"}, true},
		{"empty set", EmptyAnswer(KindMultiple), false},
		{"non-empty set", Answer{Kind: KindMultiple, OptionIDs: []string{"a"}}, true},
		{"blank text", Answer{Kind: KindText, Text: "   "}, false},
		{"real text", Answer{Kind: KindText, Text: "x"}, true},
	}
	for _, tc := range cases {
		if got := tc.answer.Answered(); got != tc.want {
			t.Fatalf("%s: answered=%v, want %v", tc.name, got, tc.want)
		}
	}
}
