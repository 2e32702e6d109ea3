package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorDanger    = lipgloss.Color("196") // Red
	colorSuccess   = lipgloss.Color("78")  // Green
)

// Masthead style for the "The Daily Bugle" title.
var Masthead = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// AuthInfo style for the "Logged in as" label.
var AuthInfo = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// SectionHeader style for the "News Feed" heading.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1).
	Padding(0, 1)

// CardTitle style for an unselected card title.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// SelectedCardTitle style for the currently highlighted card.
var SelectedCardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// CardContent style for card body text.
var CardContent = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 1)

// CardMeta style for the author and timestamp line.
var CardMeta = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// CardActions style for the edit/delete hints on owned cards.
var CardActions = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// NoticeStyle for blocking notices.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// ConfirmStyle for the delete confirmation prompt.
var ConfirmStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorDanger).
	Bold(true).
	Padding(0, 1)

// HelpStyle for empty and loading states.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// ModalBox style for the modal shell.
var ModalBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// ModalTitle style for the modal heading.
var ModalTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginBottom(1)

// FormLabel style for field labels.
var FormLabel = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Bold(true)

// FormWarning style for the disabled-form warning.
var FormWarning = lipgloss.NewStyle().
	Foreground(colorDanger)

// ChooserItem style for an unselected login option.
var ChooserItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// ChooserSelected style for the highlighted login option.
var ChooserSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)
