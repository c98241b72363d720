package quiz

import (
	"errors"
	"testing"

	"github.com/abhisek/medstud/internal/quizgen"
)

func sampleItems() []quizgen.Item {
	return []quizgen.Item{
		{Type: quizgen.TypeMCQ, Prompt: "Which organ conjugates bilirubin?", Options: []string{"Liver", "Spleen", "Kidney"}, Answer: "Liver"},
		{Type: quizgen.TypeTrueFalse, Prompt: "True or False: insulin lowers glucose.", Options: []string{"True", "False"}, Answer: "True"},
		{Type: quizgen.TypeEssay, Prompt: "Describe the coagulation cascade."},
	}
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession()
	if s.Phase() != NotStarted {
		t.Fatalf("expected not-started, got %s", s.Phase())
	}
	if _, err := s.Submit("x"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive before start, got %v", err)
	}

	s.Generate(sampleItems())
	if s.Phase() != InProgress || s.Index() != 0 || s.Score() != 0 {
		t.Fatalf("unexpected state after generate: phase=%s idx=%d score=%d", s.Phase(), s.Index(), s.Score())
	}

	fb, err := s.Submit("liver")
	if err != nil || !fb.Correct {
		t.Fatalf("expected correct, got %+v err=%v", fb, err)
	}
	fb, _ = s.Submit("false")
	if fb.Correct || fb.Reveal != "True" {
		t.Fatalf("expected incorrect with reveal, got %+v", fb)
	}
	fb, _ = s.Submit("It is a chain of proteases.")
	if !fb.Saved || fb.Graded || fb.Reveal != "" {
		t.Fatalf("expected saved essay, got %+v", fb)
	}

	if s.Phase() != Finished {
		t.Fatalf("expected finished, got %s", s.Phase())
	}
	if s.Index() != s.Len() {
		t.Errorf("index %d should equal len %d", s.Index(), s.Len())
	}
	if s.Score() != 1 {
		t.Errorf("expected score 1, got %d", s.Score())
	}
	if _, err := s.Submit("late"); !errors.Is(err, ErrNotActive) {
		t.Errorf("expected ErrNotActive after finish, got %v", err)
	}
}

func TestSession_SkipRevealsAnswer(t *testing.T) {
	s := NewSession()
	s.Generate(sampleItems())

	fb, err := s.Skip()
	if err != nil {
		t.Fatal(err)
	}
	if fb.Correct || fb.Reveal != "Liver" {
		t.Errorf("expected reveal Liver, got %+v", fb)
	}
	if s.Index() != 1 || s.Score() != 0 {
		t.Errorf("expected idx 1 score 0, got idx %d score %d", s.Index(), s.Score())
	}
}

func TestSession_Restart(t *testing.T) {
	s := NewSession()
	s.Generate(sampleItems())
	s.Submit("Liver")
	s.Skip()
	s.Skip()

	s.Restart()
	if s.Phase() != InProgress || s.Index() != 0 || s.Score() != 0 {
		t.Fatalf("restart did not reset: phase=%s idx=%d score=%d", s.Phase(), s.Index(), s.Score())
	}
	if s.Len() != 3 {
		t.Errorf("restart should keep items, got %d", s.Len())
	}
}

func TestSession_GenerateResetsMidQuiz(t *testing.T) {
	s := NewSession()
	s.Generate(sampleItems())
	s.Submit("Liver")

	s.Generate(sampleItems()[:1])
	if s.Index() != 0 || s.Score() != 0 || s.Len() != 1 {
		t.Fatalf("generate did not reset: idx=%d score=%d len=%d", s.Index(), s.Score(), s.Len())
	}
	s.Submit("L")
	if s.Phase() != Finished || s.Score() != 1 {
		t.Errorf("expected finished with score 1, got %s score %d", s.Phase(), s.Score())
	}
}

func TestSession_EmptyItems(t *testing.T) {
	s := NewSession()
	s.Generate(nil)
	if s.Phase() != NotStarted {
		t.Errorf("expected not-started for empty quiz, got %s", s.Phase())
	}
	if _, err := s.Skip(); !errors.Is(err, ErrNotActive) {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
}

func TestSession_IndexInvariant(t *testing.T) {
	s := NewSession()
	s.Generate(sampleItems())
	for i := 0; i < 10; i++ {
		s.Skip()
		if s.Index() < 0 || s.Index() > s.Len() {
			t.Fatalf("index %d out of [0, %d]", s.Index(), s.Len())
		}
		if (s.Phase() == Finished) != (s.Index() == s.Len()) {
			t.Fatalf("finished=%v but idx=%d len=%d", s.Phase() == Finished, s.Index(), s.Len())
		}
	}
}
