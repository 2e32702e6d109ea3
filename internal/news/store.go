package news

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/dailybugle/internal/journal"
	"github.com/abelbrown/dailybugle/internal/logging"
)

// Repository is the persistence boundary. Load reports found=false when no
// record has been written yet.
type Repository interface {
	Load() (state State, found bool, err error)
	Save(state State) error
}

// Fetcher produces a batch of items for a simulated refresh.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Item, error)
}

// HydrateResult describes the outcome of Hydrate.
type HydrateResult struct {
	Items      int  // items retained after pruning
	Pruned     int  // items dropped for being outside the retention window
	NeedsFetch bool // feed was empty at the hydrated moment
}

// FetchResult describes the outcome of SimulateFetchNews.
type FetchResult struct {
	Fetched int // items produced by the fetcher
	Added   int // net growth of the retained feed
	Total   int // feed size after merge and pruning
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithFetcher sets the source used by SimulateFetchNews.
func WithFetcher(f Fetcher) Option {
	return func(s *Store) { s.fetcher = f }
}

// WithRetention overrides RetentionWindow.
func WithRetention(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithJournal records feed activity to j.
func WithJournal(j *journal.Journal) Option {
	return func(s *Store) { s.journal = j }
}

// Store owns the feed and the session identity.
//
// Every mutation runs to completion under the lock and is followed by a
// prune+sort pass and a save, so readers never see a partial update and
// save order matches mutation order. Save failures are logged, never
// returned.
type Store struct {
	mu      sync.RWMutex
	repo    Repository
	fetcher Fetcher
	now     func() time.Time
	window  time.Duration
	journal *journal.Journal

	news        []Item
	currentUser User
	hydrated    bool
	loading     int // fetches in flight
}

// NewStore creates an unhydrated Store backed by repo. A nil repo keeps
// state in memory only.
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		now:    time.Now,
		window: RetentionWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the persisted record once. A load error is returned but
// the store still becomes hydrated with an empty feed and no user.
func (s *Store) Hydrate() (HydrateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return HydrateResult{}, ErrAlreadyHydrated
	}
	logging.Debug("Hydration starting")

	var loadErr error
	if s.repo != nil {
		state, found, err := s.repo.Load()
		switch {
		case err != nil:
			logging.Error("An error happened during hydration", "error", err)
			loadErr = fmt.Errorf("load state: %w", err)
			s.journal.Error(journal.KindHydrateError, err)
		case found:
			s.news = state.News
			s.currentUser = state.CurrentUser
		}
	}

	before := len(s.news)
	s.news = PruneAndSort(s.news, s.now(), s.window)
	s.hydrated = true

	res := HydrateResult{
		Items:      len(s.news),
		Pruned:     before - len(s.news),
		NeedsFetch: len(s.news) == 0,
	}
	if res.Pruned > 0 {
		logging.Info("Cut old news on hydration", "pruned", res.Pruned)
		s.persistLocked()
	}
	s.journal.Emit(journal.Event{
		Kind:   journal.KindHydrate,
		User:   string(s.currentUser),
		Count:  res.Items,
		Pruned: res.Pruned,
	})
	return res, loadErr
}

// Hydrated reports whether Hydrate has run.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Loading reports whether a simulated fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// CurrentUser returns the session identity.
func (s *Store) CurrentUser() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

// SetCurrentUser replaces the session identity. Any value is accepted.
func (s *Store) SetCurrentUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.currentUser
	s.currentUser = u
	s.persistLocked()

	switch {
	case u.LoggedIn():
		s.journal.Emit(journal.Event{Kind: journal.KindLogin, User: string(u)})
	case prev.LoggedIn():
		s.journal.Emit(journal.Event{Kind: journal.KindLogout, User: string(prev)})
	}
}

// News returns the visible feed: pruned against the current clock and
// sorted newest first. The returned slice is a copy.
func (s *Store) News() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PruneAndSort(s.news, s.now(), s.window)
}

// Item looks up a single item by id.
func (s *Store) Item(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.news, id); i >= 0 {
		return s.news[i], true
	}
	return Item{}, false
}

// Snapshot returns a copy of the persisted portion of the state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{News: s.news, CurrentUser: s.currentUser}.Clone()
}

// AddNews creates an item authored by the current user.
func (s *Store) AddNews(title, content string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentUser.LoggedIn() {
		logging.Warn("Cannot add news: No user logged in.")
		s.reject("add", "", ErrNotLoggedIn)
		return Item{}, ErrNotLoggedIn
	}

	item := NewItem(title, content, s.currentUser, s.now())
	next := make([]Item, 0, len(s.news)+1)
	next = append(next, item)
	next = append(next, s.news...)
	s.news = PruneAndSort(next, s.now(), s.window)
	s.persistLocked()
	s.record(journal.KindAdd, item)
	return item, nil
}

// EditNews replaces the title and content of an item the current user
// wrote. CreatedAt is left unchanged.
func (s *Store) EditNews(id, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.news, id)
	if i < 0 {
		logging.Warn("Cannot edit missing news item", "user", s.currentUser, "id", id)
		s.reject("edit", id, ErrNotFound)
		return fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	if !CanModify(s.news[i], s.currentUser) {
		logging.Warn("User cannot edit news item",
			"user", s.currentUser,
			"id", id,
			"author", s.news[i].AuthorID)
		s.reject("edit", id, ErrNotAuthor)
		return fmt.Errorf("edit %s: %w", id, ErrNotAuthor)
	}

	next := make([]Item, len(s.news))
	copy(next, s.news)
	next[i].Title = title
	next[i].Content = content
	edited := next[i]
	s.news = PruneAndSort(next, s.now(), s.window)
	s.persistLocked()
	s.record(journal.KindEdit, edited)
	return nil
}

// DeleteNews removes an item the current user wrote.
func (s *Store) DeleteNews(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.news, id)
	if i < 0 {
		s.reject("delete", id, ErrNotFound)
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if !CanModify(s.news[i], s.currentUser) {
		logging.Warn("User cannot delete news item",
			"user", s.currentUser,
			"id", id,
			"author", s.news[i].AuthorID)
		s.reject("delete", id, ErrNotAuthor)
		return fmt.Errorf("delete %s: %w", id, ErrNotAuthor)
	}

	removed := s.news[i]
	next := make([]Item, 0, len(s.news)-1)
	next = append(next, s.news[:i]...)
	next = append(next, s.news[i+1:]...)
	s.news = PruneAndSort(next, s.now(), s.window)
	s.persistLocked()
	s.record(journal.KindDelete, removed)
	return nil
}

// SimulateFetchNews runs the fetcher and merges its batch into the feed.
// The lock is not held while the fetcher waits, and the merge uses the
// feed as it stands when the batch arrives. Concurrent calls are allowed.
func (s *Store) SimulateFetchNews(ctx context.Context) (FetchResult, error) {
	s.mu.Lock()
	s.loading++
	fetcher := s.fetcher
	s.mu.Unlock()

	s.journal.Emit(journal.Event{Kind: journal.KindFetchStart})
	start := time.Now()
	var fetched []Item
	var err error
	if fetcher != nil {
		fetched, err = fetcher.Fetch(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		logging.Error("Simulated fetch failed", "error", err)
		s.journal.Error(journal.KindFetchError, err)
		return FetchResult{}, fmt.Errorf("simulate fetch: %w", err)
	}

	now := s.now()
	// Items that aged out while held are not counted as removed by this fetch.
	before := len(PruneAndSort(s.news, now, s.window))
	s.news = PruneAndSort(Merge(s.news, fetched), now, s.window)
	s.persistLocked()

	res := FetchResult{
		Fetched: len(fetched),
		Added:   len(s.news) - before,
		Total:   len(s.news),
	}
	logging.Info("Simulation completed. News updated and pruned.",
		"fetched", res.Fetched,
		"total", res.Total)
	s.journal.Emit(journal.Event{
		Kind:  journal.KindFetchComplete,
		Dur:   time.Since(start),
		Count: res.Fetched,
		Msg:   fmt.Sprintf("feed holds %d", res.Total),
	})
	return res, nil
}

// record journals a successful mutation. Caller must hold s.mu.
func (s *Store) record(kind journal.Kind, item Item) {
	s.journal.Emit(journal.Event{
		Kind:   kind,
		User:   string(s.currentUser),
		ItemID: item.ID,
		Title:  item.Title,
	})
}

// reject journals a refused mutation. Caller must hold s.mu.
func (s *Store) reject(op, id string, err error) {
	s.journal.Emit(journal.Event{
		Level:  journal.LevelWarn,
		Kind:   journal.KindRejected,
		User:   string(s.currentUser),
		ItemID: id,
		Msg:    op,
		Err:    err.Error(),
	})
}

// persistLocked writes the current state. Caller must hold s.mu.
func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}
	state := State{News: s.news, CurrentUser: s.currentUser}.Clone()
	if err := s.repo.Save(state); err != nil {
		logging.Error("Failed to persist state", "error", err)
	}
}

// ValidateFields rejects blank titles or content.
func ValidateFields(title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return ErrEmptyField
	}
	return nil
}
