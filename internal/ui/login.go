package ui

import (
	"strings"

	"github.com/abelbrown/dailybugle/internal/news"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the identity chooser shown inside the login modal.
type loginModel struct {
	options []news.Identity
	cursor  int
	keys    keyMap
}

// loginSelected is returned by loginModel.Update when an identity is chosen.
type loginSelected struct {
	User news.User
}

// loginCancelled is returned when the chooser is dismissed.
type loginCancelled struct{}

func newLoginModel(keys keyMap) loginModel {
	return loginModel{options: news.Identities(), keys: keys}
}

// Update handles chooser keys. A non-nil msg means the chooser is done.
func (m loginModel) Update(msg tea.KeyMsg) (loginModel, tea.Msg) {
	switch {
	case key.Matches(msg, m.keys.Close):
		return m, loginCancelled{}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.options) > 0 {
			return m, loginSelected{User: m.options[m.cursor].User}
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("User Login:\n\n")
	for i, opt := range m.options {
		label := "Login as " + opt.DisplayName
		if i == m.cursor {
			b.WriteString(ChooserSelected.Render("> " + label))
		} else {
			b.WriteString(ChooserItem.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StatusBarText.Render("enter select · esc close"))
	return b.String()
}
