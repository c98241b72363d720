package quiz

import (
	"errors"

	"github.com/abhisek/medstud/internal/quizgen"
)

// ErrNotActive is returned when an answer arrives outside a running quiz.
var ErrNotActive = errors.New("quiz is not in progress")

// Phase is the lifecycle stage of a Session.
type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Finished
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Session walks a learner through a list of items, one at a time, keeping
// score. A Session has a single owner and is not safe for concurrent use.
type Session struct {
	items    []quizgen.Item
	index    int
	score    int
	finished bool
}

// NewSession returns a session with no items.
func NewSession() *Session {
	return &Session{}
}

// Generate loads a fresh item list and starts over. It may be called in
// any phase. An empty list leaves the session not started.
func (s *Session) Generate(items []quizgen.Item) {
	s.items = append([]quizgen.Item(nil), items...)
	s.index = 0
	s.score = 0
	s.finished = false
}

// Restart replays the current items from the beginning.
func (s *Session) Restart() {
	s.index = 0
	s.score = 0
	s.finished = false
}

// Submit grades answer against the current item and advances.
func (s *Session) Submit(answer string) (Feedback, error) {
	item, ok := s.Current()
	if !ok {
		return Feedback{}, ErrNotActive
	}
	fb := Grade(item, answer)
	if fb.Correct {
		s.score++
	}
	s.advance()
	return fb, nil
}

// Skip counts the current item as wrong, reveals its answer and advances.
func (s *Session) Skip() (Feedback, error) {
	item, ok := s.Current()
	if !ok {
		return Feedback{}, ErrNotActive
	}
	s.advance()
	return Feedback{Graded: true, Reveal: item.Answer}, nil
}

func (s *Session) advance() {
	s.index = min(s.index+1, len(s.items))
	if s.index == len(s.items) {
		s.finished = true
	}
}

// Current returns the item awaiting an answer.
func (s *Session) Current() (quizgen.Item, bool) {
	if s.Phase() != InProgress {
		return quizgen.Item{}, false
	}
	return s.items[s.index], true
}

func (s *Session) Phase() Phase {
	switch {
	case len(s.items) == 0:
		return NotStarted
	case s.finished:
		return Finished
	}
	return InProgress
}

// Index is the zero-based position of the current item.
func (s *Session) Index() int { return s.index }

// Len is the number of items in the quiz.
func (s *Session) Len() int { return len(s.items) }

func (s *Session) Score() int { return s.score }

// Items returns a copy of the loaded items.
func (s *Session) Items() []quizgen.Item {
	return append([]quizgen.Item(nil), s.items...)
}
