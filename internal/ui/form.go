package ui

import (
	"strings"

	"github.com/abelbrown/dailybugle/internal/news"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldContent
)

// formModel is the add/edit form shown inside the editor modal.
type formModel struct {
	title   textinput.Model
	content textarea.Model
	focus   int
	editing *news.Item // nil while adding
}

func newFormModel() formModel {
	ti := textinput.New()
	ti.Placeholder = "News Title"
	ti.CharLimit = 120
	ti.Width = 50

	ta := textarea.New()
	ta.Placeholder = "News Content"
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(5)
	ta.ShowLineNumbers = false

	return formModel{title: ti, content: ta}
}

// open prepares the form for adding (item == nil) or editing item.
func (f formModel) open(item *news.Item) (formModel, tea.Cmd) {
	f = f.reset()
	if item != nil {
		copied := *item
		f.editing = &copied
		f.title.SetValue(item.Title)
		f.title.CursorEnd()
		f.content.SetValue(item.Content)
	}
	f.focus = fieldTitle
	f.content.Blur()
	cmd := f.title.Focus()
	return f, cmd
}

func (f formModel) reset() formModel {
	f.editing = nil
	f.focus = fieldTitle
	f.title.Reset()
	f.content.Reset()
	f.title.Blur()
	f.content.Blur()
	return f
}

// heading is "Editing" or "Adding".
func (f formModel) heading() string {
	if f.editing != nil {
		return "Editing"
	}
	return "Adding"
}

// modalTitle is the title of the surrounding modal.
func (f formModel) modalTitle() string {
	if f.editing != nil {
		return "Edit News"
	}
	return "Add News"
}

// disabledReason mirrors the store's authorization check. Empty means the
// form accepts input.
func (f formModel) disabledReason(user news.User) string {
	if !user.LoggedIn() {
		return "Please log in to add or edit news."
	}
	if f.editing != nil && f.editing.AuthorID != user {
		return "You cannot edit this item."
	}
	return ""
}

func (f formModel) values() (string, string) {
	return f.title.Value(), f.content.Value()
}

func (f formModel) switchFocus() (formModel, tea.Cmd) {
	if f.focus == fieldTitle {
		f.focus = fieldContent
		f.title.Blur()
		cmd := f.content.Focus()
		return f, cmd
	}
	f.focus = fieldTitle
	f.content.Blur()
	cmd := f.title.Focus()
	return f, cmd
}

// updateInput forwards msg to the focused field.
func (f formModel) updateInput(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.content, cmd = f.content.Update(msg)
	}
	return f, cmd
}

func (f formModel) setWidth(width int) formModel {
	w := width - 12
	if w < 20 {
		w = 20
	}
	if w > 80 {
		w = 80
	}
	f.title.Width = w
	f.content.SetWidth(w)
	return f
}

func (f formModel) View(user news.User) string {
	var b strings.Builder
	b.WriteString(FormLabel.Render(f.heading()))
	b.WriteString("\n")

	if reason := f.disabledReason(user); reason != "" {
		b.WriteString(FormWarning.Render(reason))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FormLabel.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(FormLabel.Render("Content"))
	b.WriteString("\n")
	b.WriteString(f.content.View())
	b.WriteString("\n\n")

	submit := "ctrl+s add news"
	cancel := "esc close"
	if f.editing != nil {
		submit = "ctrl+s save changes"
		cancel = "esc cancel edit"
	}
	b.WriteString(StatusBarText.Render(submit + " · tab next field · " + cancel))
	return b.String()
}
