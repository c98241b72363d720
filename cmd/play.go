package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/medstud/internal/app"
	"github.com/abhisek/medstud/internal/quiz"
	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/spacedrep"
	"github.com/abhisek/medstud/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Take a quiz generated from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger(cmd)

		opts, err := generationOptions(cmd)
		if err != nil {
			return err
		}
		doc, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		gen := buildGenerator(ctx, cmd, s.EventRepo(), logger)
		items := gen.Generate(ctx, doc, opts)
		if err := quiz.SaveItems(ctx, s.ReviewRepo(), items); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		return runQuiz(ctx, s, filepath.Base(args[0]), items)
	},
}

// runQuiz runs the terminal quiz over items, recording every answer and
// updating review schedules.
func runQuiz(ctx context.Context, s *store.Store, title string, items []quizgen.Item) error {
	sched := spacedrep.NewScheduler(s.ReviewRepo())
	if err := sched.Load(ctx); err != nil {
		return err
	}
	rec := &quiz.Recorder{
		Events:    s.EventRepo(),
		Scheduler: sched,
		SessionID: uuid.NewString(),
	}

	score, total, err := app.Run(items, app.Options{
		Title: title,
		OnAnswer: func(_ quizgen.Item, a quiz.Answer) error {
			_, err := rec.Record(context.WithoutCancel(ctx), a)
			return err
		},
	})
	if err != nil {
		return err
	}

	if total > 0 {
		fmt.Printf("Score: %d/%d\n", score, total)
		if due := len(sched.Due(time.Now().AddDate(0, 0, 1))); due > 0 {
			fmt.Printf("%d items due for review by tomorrow.\n", due)
		}
	}
	return nil
}

func init() {
	addDocumentFlags(playCmd)
	addGenerationFlags(playCmd)
}
