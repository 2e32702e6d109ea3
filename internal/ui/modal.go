package ui

import "github.com/charmbracelet/lipgloss"

// modalKind is the single modal that may be open at a time.
type modalKind int

const (
	modalNone modalKind = iota
	modalLogin
	modalEditor
)

func (m modalKind) String() string {
	switch m {
	case modalLogin:
		return "login"
	case modalEditor:
		return "editor"
	default:
		return "none"
	}
}

// renderModal draws body in a bordered box titled title, centered in the
// given area.
func renderModal(title, body string, width, height int) string {
	box := ModalBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		ModalTitle.Render(title),
		body,
	))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
