package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Arnur12345/quizmaker-task/internal/client"
	"github.com/Arnur12345/quizmaker-task/internal/config"
	"github.com/Arnur12345/quizmaker-task/internal/domain"
	"github.com/Arnur12345/quizmaker-task/internal/session"
	"github.com/spf13/cobra"
)

// NewPlayCmd builds the subcommand that takes a quiz interactively against a
// running quiz service.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		quizID    string
		serverURL string
		token     string
		user      string
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take a quiz from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, err := config.Load(*configPath); err == nil {
				if serverURL == "" {
					serverURL = cfg.Client.BaseURL
				}
				if token == "" {
					token = cfg.Client.Token
				}
				if duration == 0 {
					duration = config.Duration(cfg.Session.Duration, session.DefaultDuration)
				}
			}
			if serverURL == "" {
				serverURL = "http://localhost:8080"
			}
			return runPlay(cmd.Context(), serverURL, token, user, quizID, duration)
		},
	}

	cmd.Flags().StringVar(&quizID, "quiz", "quiz-1", "quiz id to play")
	cmd.Flags().StringVar(&serverURL, "server", "", "quiz service base URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().StringVar(&user, "user", "anonymous", "user id submitting the attempt")
	cmd.Flags().DurationVar(&duration, "duration", 0, "session countdown, e.g. 15m")
	return cmd
}

func runPlay(ctx context.Context, serverURL, token, user, quizID string, duration time.Duration) error {
	c := client.New(serverURL, token).WithUser(user)

	quiz, err := c.GetQuiz(ctx, quizID)
	if err != nil {
		return fmt.Errorf("load quiz: %w", err)
	}

	sess, err := session.New(quiz, c, duration)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sess.Run(runCtx)

	fmt.Printf("%s — %d questions, %d seconds\n", quiz.Title, sess.QuestionCount(), sess.RemainingSeconds())
	fmt.Println("commands: <n> pick option, t <text> answer, n(ext), p(rev), g <i>, s(ubmit), r(etry), q(uit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if done := reportIfFinished(sess); done {
			return nil
		}

		printQuestion(sess)
		fmt.Print("> ")
		if !scanner.Scan() {
			sess.Abandon()
			return scanner.Err()
		}

		// The countdown may have force-submitted while we were blocked on
		// input; the input then applies to a frozen session and is dropped.
		if done := reportIfFinished(sess); done {
			return nil
		}
		if err := handleInput(ctx, sess, strings.TrimSpace(scanner.Text())); err != nil {
			if err == errQuit {
				sess.Abandon()
				return nil
			}
			fmt.Printf("  ! %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func handleInput(ctx context.Context, sess *session.Session, line string) error {
	question := sess.CurrentQuestion()

	switch {
	case line == "q":
		return errQuit
	case line == "n":
		_, err := sess.Next(ctx)
		return err
	case line == "p":
		sess.Previous()
		return nil
	case strings.HasPrefix(line, "g "):
		index, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "g ")))
		if err != nil {
			return fmt.Errorf("not an index: %q", line)
		}
		return sess.GoTo(index - 1)
	case line == "s":
		return sess.Submit(ctx)
	case line == "r":
		return sess.Retry(ctx)
	case strings.HasPrefix(line, "t "):
		return sess.SetText(question.ID, strings.TrimPrefix(line, "t "))
	default:
		pick, err := strconv.Atoi(line)
		if err != nil || pick < 1 || pick > len(question.Options) {
			if question.Kind == domain.KindText {
				return sess.SetText(question.ID, line)
			}
			return fmt.Errorf("unknown command %q", line)
		}
		optionID := question.Options[pick-1].ID
		if question.Kind == domain.KindMultiple {
			return sess.ToggleMultiple(question.ID, optionID)
		}
		return sess.SetSingle(question.ID, optionID)
	}
}

func printQuestion(sess *session.Session) {
	question := sess.CurrentQuestion()
	answer, _ := sess.Answer(question.ID)

	fmt.Printf("\n[%d/%d] %s (%d pt, %ds left)\n",
		sess.CurrentIndex()+1, sess.QuestionCount(), question.Prompt, question.Points, sess.RemainingSeconds())
	if question.ImageURL != "" {
		fmt.Printf("  image: %s\n", question.ImageURL)
	}

	switch question.Kind {
	case domain.KindText:
		fmt.Printf("  your answer: %q\n", answer.Text)
	default:
		for i, opt := range question.Options {
			marker := " "
			if answer.OptionID == opt.ID || answer.HasOption(opt.ID) {
				marker = "x"
			}
			fmt.Printf("  [%s] %d. %s\n", marker, i+1, opt.Text)
		}
	}

	answered := 0
	for _, done := range sess.Progress() {
		if done {
			answered++
		}
	}
	fmt.Printf("  answered %d/%d\n", answered, sess.QuestionCount())
}

// reportIfFinished prints the outcome for a finished session.
func reportIfFinished(sess *session.Session) bool {
	switch sess.Status() {
	case session.StatusCompleted:
		result, _ := sess.Result()
		fmt.Printf("\nDone: %d/%d correct, %d/%d points (%d%%)\n",
			result.CorrectAnswers, result.TotalQuestions,
			result.TotalPoints, result.MaxPoints, result.PercentageCorrect)
		for i, qr := range result.QuestionResults {
			mark := "✗"
			if qr.Correct {
				mark = "✓"
			}
			fmt.Printf("  %s question %d: %d pt\n", mark, i+1, qr.Points)
		}
		fmt.Printf("total score on server: %d\n", sess.UpdatedScore())
		return true
	case session.StatusFailed:
		fmt.Printf("\nsubmission failed: %v — answers kept, type r to retry or q to quit\n", sess.Err())
		return false
	default:
		return false
	}
}
