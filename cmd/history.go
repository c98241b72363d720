package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/medstud/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past quiz sessions and their scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryAnswerEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}

		sessions := summarizeSessions(events)
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[len(sessions)-limit:]
		}
		writeSessions(cmd.OutOrStdout(), sessions)
		return nil
	},
}

// sessionSummary totals the answers given in one quiz run.
type sessionSummary struct {
	ID       string
	Started  time.Time
	Answered int
	Correct  int
	Skipped  int
	Saved    int
}

// summarizeSessions groups answer events by session, in the order the
// sessions started.
func summarizeSessions(events []store.AnswerEvent) []sessionSummary {
	index := make(map[string]int)
	var out []sessionSummary
	for _, e := range events {
		i, ok := index[e.SessionID]
		if !ok {
			i = len(out)
			index[e.SessionID] = i
			out = append(out, sessionSummary{ID: e.SessionID, Started: e.Timestamp})
		}
		s := &out[i]
		s.Answered++
		switch {
		case e.Skipped:
			s.Skipped++
		case !e.Graded:
			s.Saved++
		case e.Correct:
			s.Correct++
		}
	}
	return out
}

func writeSessions(w io.Writer, sessions []sessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No quiz sessions recorded.")
		return
	}
	fmt.Fprintf(w, "%-19s  %-8s  %8s  %7s  %7s  %5s  %6s\n",
		"Started", "Session", "Answered", "Correct", "Skipped", "Saved", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, s := range sessions {
		score := "-"
		if graded := s.Answered - s.Saved; graded > 0 {
			score = fmt.Sprintf("%d%%", s.Correct*100/graded)
		}
		fmt.Fprintf(w, "%-19s  %-8s  %8d  %7d  %7d  %5d  %6s\n",
			s.Started.Local().Format(timeLayout), truncate(s.ID, 8),
			s.Answered, s.Correct, s.Skipped, s.Saved, score)
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of most recent sessions to show")
}
