package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/medstud/internal/ui/theme"
)

// Choices is a vertical option picker for multiple-choice and
// true/false items.
type Choices struct {
	Options  []string
	Selected int
	Chosen   int
}

// NewChoices creates a picker over options with nothing chosen.
func NewChoices(options []string) Choices {
	return Choices{Options: options, Chosen: -1}
}

// Update handles keyboard navigation. Digits jump straight to an option.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.Done() {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Selected = i
			}
		}
	}
	return c, nil
}

// Choose locks in the highlighted option.
func (c *Choices) Choose() {
	if len(c.Options) > 0 {
		c.Chosen = c.Selected
	}
}

// Pass locks the picker without choosing any option.
func (c *Choices) Pass() {
	c.Chosen = len(c.Options)
}

// Done reports whether an option has been chosen or passed.
func (c Choices) Done() bool {
	return c.Chosen >= 0
}

// Value returns the highlighted option, or the chosen one once locked.
func (c Choices) Value() string {
	i := c.Selected
	if c.Done() {
		i = c.Chosen
	}
	if i < 0 || i >= len(c.Options) {
		return ""
	}
	return c.Options[i]
}

// View renders the options. Once an option is chosen and reveal is set,
// the expected option is highlighted and a wrong pick is marked.
func (c Choices) View(reveal string) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Done() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		switch {
		case !c.Done() && i == c.Selected:
			line = theme.Selected.Render(line)
		case !c.Done():
			line = theme.Unselected.Render(line)
		case reveal != "" && strings.EqualFold(opt, reveal):
			line = theme.Correct.Render(line)
		case i == c.Chosen && reveal != "":
			line = theme.Incorrect.Render(line)
		case i == c.Chosen:
			line = theme.Correct.Render(line)
		default:
			line = theme.Dimmed.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
