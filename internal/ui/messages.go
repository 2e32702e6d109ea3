// Package ui provides the Bubble Tea TUI for the Daily Bugle.
package ui

import "github.com/abelbrown/dailybugle/internal/news"

// Hydrated is sent once the store has loaded persisted state.
type Hydrated struct {
	Result news.HydrateResult
	Err    error
}

// FetchComplete is sent when a simulated fetch finishes.
type FetchComplete struct {
	Result news.FetchResult
	Err    error
}
