// Package wire simulates a news wire: a slow source of synthetic items.
package wire

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/abelbrown/dailybugle/internal/news"
)

const (
	// DefaultBatchSize is how many items one fetch produces.
	DefaultBatchSize = 9

	// oldChance is the probability that a generated item is outside the
	// retention window.
	oldChance = 0.4

	oldAge        = 4 * 24 * time.Hour
	oldJitter     = 20 * time.Hour
	recentJitter  = 60 * time.Hour
	timestampForm = "1/2/2006, 3:04:05 PM"
)

// Generator builds batches of synthetic items. Safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	now       func() time.Time
	authors   []news.User
	headlines []Headline
	count     int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRand sets the random source, for deterministic batches.
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.rng = rng }
}

// WithNow overrides time.Now.
func WithNow(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithAuthors overrides the wire identities.
func WithAuthors(authors ...news.User) GeneratorOption {
	return func(g *Generator) {
		if len(authors) > 0 {
			g.authors = authors
		}
	}
}

// WithHeadlines overrides the embedded corpus.
func WithHeadlines(h []Headline) GeneratorOption {
	return func(g *Generator) {
		if len(h) > 0 {
			g.headlines = h
		}
	}
}

// WithBatchSize sets items per batch; non-positive values are ignored.
func WithBatchSize(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.count = n
		}
	}
}

// NewGenerator creates a Generator with the embedded headline corpus.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		authors: news.WireAuthors(),
		count:   DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.headlines == nil {
		g.headlines = DefaultHeadlines()
	}
	return g
}

// Generate returns one batch. About 40% of items are four days old (plus
// up to 20h) so the prune pass has something to drop; the rest are within
// the last 60 hours.
func (g *Generator) Generate() []news.Item {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	items := make([]news.Item, 0, g.count)
	for i := 1; i <= g.count; i++ {
		isOld := g.rng.Float64() < oldChance

		var createdAt time.Time
		label := "Recent"
		if isOld {
			label = "Old"
			createdAt = now.Add(-oldAge).Add(g.jitter(oldJitter))
		} else {
			createdAt = now.Add(-g.jitter(recentJitter))
		}

		headline := g.headlines[g.rng.Intn(len(g.headlines))]
		author := g.authors[g.rng.Intn(len(g.authors))]

		items = append(items, news.NewItem(
			fmt.Sprintf("Simulated News %d (%s)", i, label),
			fmt.Sprintf("This is fake content for news item %d. %s. Timestamp: %s",
				i, headline.Title, createdAt.Local().Format(timestampForm)),
			author,
			createdAt,
		))
	}
	return items
}

// jitter returns a random duration in [0, span). Caller holds g.mu.
func (g *Generator) jitter(span time.Duration) time.Duration {
	return time.Duration(g.rng.Int63n(int64(span)))
}
