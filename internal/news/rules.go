package news

import (
	"errors"
	"sort"
	"time"
)

// RetentionWindow is how far back an item may be and still appear in the feed.
const RetentionWindow = 3 * 24 * time.Hour

var (
	// ErrNotLoggedIn is returned when a mutation needs a current user.
	ErrNotLoggedIn = errors.New("no user logged in")
	// ErrNotFound is returned when the item id is unknown.
	ErrNotFound = errors.New("news item not found")
	// ErrNotAuthor is returned when the current user did not write the item.
	ErrNotAuthor = errors.New("not the author")
	// ErrEmptyField is returned when a title or content is blank.
	ErrEmptyField = errors.New("title and content cannot be empty")
	// ErrAlreadyHydrated is returned by a second Hydrate call.
	ErrAlreadyHydrated = errors.New("store already hydrated")
)

// PruneAndSort drops items older than window relative to now and returns
// the rest newest first. Items with equal timestamps keep their input order.
// The input slice is not modified.
func PruneAndSort(items []Item, now time.Time, window time.Duration) []Item {
	cutoff := now.Add(-window)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.CreatedAt.Before(cutoff) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Merge combines two lists by id. When both carry the same id the one with
// the strictly later CreatedAt wins; on a tie the existing item stays.
// Result order is unspecified.
func Merge(existing, incoming []Item) []Item {
	byID := make(map[string]Item, len(existing)+len(incoming))
	order := make([]string, 0, len(existing)+len(incoming))
	for _, list := range [][]Item{existing, incoming} {
		for _, item := range list {
			prev, ok := byID[item.ID]
			if !ok {
				order = append(order, item.ID)
				byID[item.ID] = item
				continue
			}
			if item.CreatedAt.After(prev.CreatedAt) {
				byID[item.ID] = item
			}
		}
	}
	out := make([]Item, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// CanModify reports whether user may edit or delete item.
func CanModify(item Item, user User) bool {
	return user.LoggedIn() && item.AuthorID == user
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
