// Package news holds the Daily Bugle feed: items, identities, and the
// Store that owns every mutation rule.
package news

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a simulated session identity. The zero value means nobody is
// logged in.
type User string

// NoUser is the logged-out session.
const NoUser User = ""

// Login identities offered by the login chooser.
const (
	UserPeter   User = "user-Peter-123"
	UserJonah   User = "user-Jonah-456"
	UserDeadMan User = "user-DeadMan-789"
)

// Wire identities author synthetic items. Nobody can log in as them, so
// fetched items are read-only in the feed.
const (
	UserWireA User = "user-a"
	UserWireB User = "user-b"
)

// Identity describes a login option.
type Identity struct {
	User        User
	DisplayName string
}

var identities = []Identity{
	{User: UserPeter, DisplayName: "Peter P."},
	{User: UserJonah, DisplayName: "J. Jonah Jameson"},
	{User: UserDeadMan, DisplayName: "Uncle"},
}

// Identities returns the login identities in display order.
func Identities() []Identity {
	out := make([]Identity, len(identities))
	copy(out, identities)
	return out
}

// WireAuthors returns the identities used for synthetic items.
func WireAuthors() []User {
	return []User{UserWireB, UserWireA}
}

// ParseUser resolves a login identity from its full id or short name
// (case-insensitive). "none" and "" resolve to NoUser.
func ParseUser(s string) (User, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return NoUser, true
	}
	for _, id := range identities {
		if string(id.User) == s || strings.EqualFold(id.User.ShortName(), s) {
			return id.User, true
		}
	}
	return NoUser, false
}

// LoggedIn reports whether u is a real identity.
func (u User) LoggedIn() bool {
	return u != NoUser
}

// ShortName is the segment after the first dash ("user-Peter-123" -> "Peter").
// Identities without a dash are returned unchanged.
func (u User) ShortName() string {
	parts := strings.Split(string(u), "-")
	if len(parts) < 2 {
		return string(u)
	}
	return parts[1]
}

// DisplayName returns the chooser label for login identities, or the raw id.
func (u User) DisplayName() string {
	for _, id := range identities {
		if id.User == u {
			return id.DisplayName
		}
	}
	return string(u)
}

func (u User) String() string {
	if u == NoUser {
		return "<none>"
	}
	return string(u)
}

// Item is a single news post.
type Item struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	AuthorID  User
}

// NewItem creates an item with a fresh id.
func NewItem(title, content string, author User, createdAt time.Time) Item {
	return Item{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
		AuthorID:  author,
	}
}

// State is the persisted record: the feed plus the session identity.
type State struct {
	News        []Item
	CurrentUser User
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{CurrentUser: s.CurrentUser}
	if s.News != nil {
		out.News = make([]Item, len(s.News))
		copy(out.News, s.News)
	}
	return out
}
