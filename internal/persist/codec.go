// Package persist stores the Daily Bugle state record in a key-value backend.
package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abelbrown/dailybugle/internal/news"
)

// StateKey is the fixed key the state record is stored under.
const StateKey = "news-storage"

// recordVersion is written into every envelope.
const recordVersion = 0

// envelope mirrors the on-disk record: {"state": {...}, "version": 0}.
type envelope struct {
	State   record `json:"state"`
	Version int    `json:"version"`
}

type record struct {
	News        []itemRecord `json:"news"`
	CurrentUser *string      `json:"currentUser"`
}

type itemRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"` // Unix milliseconds
	AuthorID  string `json:"authorId"`
}

// Encode serializes state as the JSON envelope.
func Encode(state news.State) ([]byte, error) {
	env := envelope{
		Version: recordVersion,
		State: record{
			News: make([]itemRecord, 0, len(state.News)),
		},
	}
	if state.CurrentUser.LoggedIn() {
		u := string(state.CurrentUser)
		env.State.CurrentUser = &u
	}
	for _, item := range state.News {
		env.State.News = append(env.State.News, itemRecord{
			ID:        item.ID,
			Title:     item.Title,
			Content:   item.Content,
			CreatedAt: item.CreatedAt.UnixMilli(),
			AuthorID:  string(item.AuthorID),
		})
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses a JSON envelope. Items without an id are rejected.
func Decode(data []byte) (news.State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return news.State{}, fmt.Errorf("decode state: %w", err)
	}

	state := news.State{News: make([]news.Item, 0, len(env.State.News))}
	if env.State.CurrentUser != nil {
		state.CurrentUser = news.User(*env.State.CurrentUser)
	}
	for i, rec := range env.State.News {
		if rec.ID == "" {
			return news.State{}, fmt.Errorf("decode state: item %d has no id", i)
		}
		state.News = append(state.News, news.Item{
			ID:        rec.ID,
			Title:     rec.Title,
			Content:   rec.Content,
			CreatedAt: time.UnixMilli(rec.CreatedAt),
			AuthorID:  news.User(rec.AuthorID),
		})
	}
	return state, nil
}
