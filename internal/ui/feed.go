package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/dailybugle/internal/news"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// linesPerCard is title, content, meta, actions and a blank separator.
const linesPerCard = 5

const postedFormat = "1/2/2006 3:04:05 PM"

// FormatPosted renders a card timestamp with a relative age.
func FormatPosted(createdAt, now time.Time) string {
	return fmt.Sprintf("%s (%s)",
		createdAt.Local().Format(postedFormat),
		humanize.RelTime(createdAt, now, "ago", "from now"))
}

// RenderFeed renders the news cards with the cursor kept in view.
func RenderFeed(items []news.Item, cursor int, user news.User, now time.Time, width, height int) string {
	visible := height / linesPerCard
	if visible < 1 {
		visible = 1
	}
	offset := 0
	if cursor >= visible {
		offset = cursor - visible + 1
	}

	var b strings.Builder
	for i := offset; i < len(items) && i < offset+visible; i++ {
		b.WriteString(renderCard(items[i], i == cursor, user, now, width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(item news.Item, selected bool, user news.User, now time.Time, width int) string {
	textWidth := width - 2
	if textWidth < 10 {
		textWidth = 10
	}

	title := truncate(item.Title, textWidth)
	if selected {
		title = SelectedCardTitle.Render(title)
	} else {
		title = CardTitle.Render(title)
	}

	content := truncate(firstLine(item.Content), textWidth)
	meta := truncate(fmt.Sprintf("By: %s · Posted: %s", item.AuthorID, FormatPosted(item.CreatedAt, now)), textWidth)

	actions := ""
	if news.CanModify(item, user) {
		actions = CardActions.Render("[e] Edit  [d] Delete")
	}

	return strings.Join([]string{
		title,
		CardContent.Render(content),
		CardMeta.Render(meta),
		actions,
	}, "\n")
}

// RenderStatusBar renders the bottom bar with position and key hints.
func RenderStatusBar(cursor, total int, user news.User, width int, loading bool) string {
	position := "0/0"
	if total > 0 {
		position = fmt.Sprintf("%d/%d", cursor+1, total)
	}

	hints := []string{"j/k move", "r refresh"}
	if user.LoggedIn() {
		hints = append(hints, "a add", "e edit", "d delete", "L logout")
	} else {
		hints = append(hints, "l login")
	}
	hints = append(hints, "q quit")

	left := StatusBarKey.Render(position)
	if loading {
		left += StatusBarText.Render(" · fetching")
	}
	bar := left + "  " + StatusBarText.Render(strings.Join(hints, " · "))
	return StatusBar.Width(width).Render(bar)
}

// truncate cuts s to width display cells.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
