package wire

import (
	_ "embed"
	"strings"

	"github.com/abelbrown/dailybugle/internal/logging"
	"github.com/mmcdole/gofeed"
)

//go:embed headlines.xml
var headlinesXML string

// fallbackHeadline is used when the corpus yields nothing.
const fallbackHeadline = "Nothing new on the wire"

// Headline is one line of syndicated copy.
type Headline struct {
	Title   string
	Summary string
}

// ParseHeadlines reads RSS or Atom copy into headlines, skipping untitled entries.
func ParseHeadlines(doc string) ([]Headline, error) {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, err
	}
	out := make([]Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		out = append(out, Headline{
			Title:   title,
			Summary: strings.TrimSpace(item.Description),
		})
	}
	return out, nil
}

// DefaultHeadlines returns the embedded corpus.
func DefaultHeadlines() []Headline {
	headlines, err := ParseHeadlines(headlinesXML)
	if err != nil || len(headlines) == 0 {
		logging.Warn("Embedded headline corpus unusable", "error", err)
		return []Headline{{Title: fallbackHeadline}}
	}
	return headlines
}
