package app

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medstud/internal/quiz"
	"github.com/abhisek/medstud/internal/quizgen"
	"github.com/abhisek/medstud/internal/ui/components"
	"github.com/abhisek/medstud/internal/ui/layout"
	"github.com/abhisek/medstud/internal/ui/theme"
)

// AnswerFunc is called once per submitted or skipped item, on the UI loop,
// so calls never overlap and all have returned when Run does. Its error is
// shown in the footer but does not stop the quiz.
type AnswerFunc func(item quizgen.Item, a quiz.Answer) error

// Options configure the quiz runner.
type Options struct {
	Title    string
	OnAnswer AnswerFunc
}

// Model is the root Bubble Tea model of the terminal quiz.
type Model struct {
	session  *quiz.Session
	opts     Options
	choices  components.Choices
	input    components.TextInput
	feedback *quiz.Feedback
	answered int
	saveErr  error
	width    int
	height   int
}

// New creates a quiz over items.
func New(items []quizgen.Item, opts Options) Model {
	s := quiz.NewSession()
	s.Generate(items)
	m := Model{session: s, opts: opts}
	m.resetWidgets()
	return m
}

// Session exposes the underlying quiz state.
func (m Model) Session() *quiz.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.feedback != nil {
		if key == "enter" || key == "space" {
			m.feedback = nil
			m.resetWidgets()
			return m, m.input.Init()
		}
		return m, nil
	}

	switch m.session.Phase() {
	case quiz.NotStarted:
		if key == "q" || key == "esc" || key == "enter" {
			return m, tea.Quit
		}
		return m, nil
	case quiz.Finished:
		switch key {
		case "r":
			m.session.Restart()
			m.answered = 0
			m.resetWidgets()
			return m, m.input.Init()
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m, tea.Quit
	case "tab":
		return m.skip()
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	if m.usesChoices() {
		m.choices, cmd = m.choices.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	item, _ := m.session.Current()
	picking := m.usesChoices()
	var given string
	if picking {
		m.choices.Choose()
		given = m.choices.Value()
	} else {
		given = m.input.Value()
	}

	fb, err := m.session.Submit(given)
	if err != nil {
		return m, nil
	}
	if !picking {
		m.input.Submit(fb.Correct)
	}
	return m.afterAnswer(item, quiz.Answer{
		ItemID:   item.ID(),
		ItemType: string(item.Type),
		Given:    given,
		Feedback: fb,
	})
}

func (m Model) skip() (tea.Model, tea.Cmd) {
	item, _ := m.session.Current()
	picking := m.usesChoices()
	fb, err := m.session.Skip()
	if err != nil {
		return m, nil
	}
	if picking {
		m.choices.Pass()
	} else {
		m.input.Submit(false)
	}
	return m.afterAnswer(item, quiz.Answer{
		ItemID:   item.ID(),
		ItemType: string(item.Type),
		Skipped:  true,
		Feedback: fb,
	})
}

func (m Model) afterAnswer(item quizgen.Item, a quiz.Answer) (tea.Model, tea.Cmd) {
	m.feedback = &a.Feedback
	m.answered++
	if m.opts.OnAnswer != nil {
		m.saveErr = m.opts.OnAnswer(item, a)
	}
	return m, nil
}

// resetWidgets prepares the input widget for the current item.
func (m *Model) resetWidgets() {
	item, _ := m.session.Current()
	m.choices = components.NewChoices(choiceOptions(item))
	m.input = components.NewTextInput("Type your answer", 200)
}

func (m Model) usesChoices() bool {
	item, ok := m.session.Current()
	return ok && len(choiceOptions(item)) > 0
}

// choiceOptions returns the options to pick from, or nil for items that
// take a typed answer.
func choiceOptions(item quizgen.Item) []string {
	switch quiz.Kind(item.Type) {
	case quizgen.TypeMCQ:
		return item.Options
	case quizgen.TypeTrueFalse:
		if len(item.Options) > 0 {
			return item.Options
		}
		return []string{"True", "False"}
	}
	return nil
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m Model) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.opts.Title, m.session.Score(), m.answered, m.session.Len(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	var content string
	switch {
	case m.session.Phase() == quiz.NotStarted:
		content = theme.Hint.Render("\n  No questions could be generated from this document.")
	case m.feedback != nil:
		content = m.renderItem(m.width) + "\n" + m.renderFeedback()
	case m.session.Phase() == quiz.Finished:
		content = m.renderSummary(m.width)
	default:
		content = m.renderItem(m.width)
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m Model) keyHints() []layout.KeyHint {
	switch {
	case m.feedback != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Ctrl+C", Description: "Quit"}}
	case m.session.Phase() == quiz.Finished:
		return []layout.KeyHint{{Key: "R", Description: "Restart"}, {Key: "Q", Description: "Quit"}}
	case m.session.Phase() == quiz.NotStarted:
		return []layout.KeyHint{{Key: "Q", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Tab", Description: "Skip"}}
	if m.usesChoices() {
		hints = append([]layout.KeyHint{{Key: "↑↓", Description: "Choose"}}, hints...)
	}
	if m.saveErr != nil {
		hints = append(hints, layout.KeyHint{Key: "!", Description: "answer not saved"})
	}
	return hints
}

// renderItem draws the item being answered, or the one just answered
// while feedback is shown.
func (m Model) renderItem(width int) string {
	idx := m.session.Index()
	if m.feedback != nil {
		idx--
	}
	items := m.session.Items()
	if idx < 0 || idx >= len(items) {
		return ""
	}
	item := items[idx]

	var b strings.Builder
	b.WriteString("  " + components.NewProgressBar(idx, len(items), width-8).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Prompt.Width(width - 4).PaddingLeft(2).Render(item.Prompt))
	b.WriteString("\n\n")

	reveal := ""
	if m.feedback != nil {
		reveal = m.feedback.Reveal
		if reveal == "" && m.feedback.Correct {
			reveal = item.Answer
		}
	}
	if len(choiceOptions(item)) > 0 {
		b.WriteString(m.choices.View(reveal))
	} else {
		b.WriteString("  " + m.input.View() + "\n")
	}
	return b.String()
}

func (m Model) renderFeedback() string {
	fb := m.feedback
	switch {
	case fb.Saved:
		return theme.Saved.Render("  Saved. (Manually graded item)")
	case fb.Correct:
		return theme.Correct.Render("  Correct!")
	case fb.Reveal != "":
		return theme.Incorrect.Render("  Incorrect. Correct answer: " + fb.Reveal)
	}
	return theme.Incorrect.Render("  Incorrect.")
}

func (m Model) renderSummary(width int) string {
	s := m.session
	pct := 0
	if s.Len() > 0 {
		pct = s.Score() * 100 / s.Len()
	}
	body := theme.Title.Render("Quiz complete") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("Score: %d / %d (%d%%)", s.Score(), s.Len(), pct))
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render("\n" + theme.Card.Render(body))
}

// Run starts the terminal quiz and returns the final score.
func Run(items []quizgen.Item, opts Options) (score, total int, err error) {
	p := tea.NewProgram(New(items, opts))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return 0, 0, err
	}
	m := final.(Model)
	return m.session.Score(), m.session.Len(), nil
}
