package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/medstud/internal/quiz"
	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/spacedrep"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List items due for review, or quiz yourself on them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sched := spacedrep.NewScheduler(s.ReviewRepo())
		if err := sched.Load(ctx); err != nil {
			return err
		}

		now := time.Now()
		due := sched.Due(now)
		if len(due) == 0 {
			fmt.Printf("Nothing due. %d items scheduled.\n", sched.Len())
			return nil
		}

		ids := make([]string, len(due))
		for i, rec := range due {
			ids[i] = rec.ID
		}
		stored, err := quiz.LoadItems(ctx, s.ReviewRepo(), ids)
		if err != nil {
			return err
		}

		var items []quizgen.Item
		for _, rec := range due {
			if it, ok := stored[rec.ID]; ok {
				items = append(items, it)
			}
		}

		if play, _ := cmd.Flags().GetBool("play"); play {
			return runQuiz(ctx, s, "Review", items)
		}

		fmt.Printf("%d items due for review\n\n", len(due))
		for _, rec := range due {
			prompt := "(item text not stored)"
			if it, ok := stored[rec.ID]; ok {
				prompt = it.Prompt
			}
			overdue := -rec.DaysUntil(now)
			fmt.Printf("%-60s  %2dd overdue  ease %.2f  reps %d\n",
				truncate(prompt, 60), overdue, rec.EaseFactor, rec.Repetitions)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("play", false, "Quiz yourself on the due items")
}
