package news

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestPruneAndSort(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  []string
	}{
		{
			name: "sorts newest first",
			items: []Item{
				{ID: "a", CreatedAt: epoch.Add(-3 * time.Hour)},
				{ID: "b", CreatedAt: epoch.Add(-1 * time.Hour)},
				{ID: "c", CreatedAt: epoch.Add(-2 * time.Hour)},
			},
			want: []string{"b", "c", "a"},
		},
		{
			name: "drops items older than three days",
			items: []Item{
				{ID: "old", CreatedAt: epoch.Add(-4 * 24 * time.Hour)},
				{ID: "new", CreatedAt: epoch},
			},
			want: []string{"new"},
		},
		{
			name: "keeps item exactly at the cutoff",
			items: []Item{
				{ID: "edge", CreatedAt: epoch.Add(-RetentionWindow)},
				{ID: "past", CreatedAt: epoch.Add(-RetentionWindow - time.Millisecond)},
			},
			want: []string{"edge"},
		},
		{
			name: "ties keep input order",
			items: []Item{
				{ID: "x", CreatedAt: epoch},
				{ID: "y", CreatedAt: epoch},
			},
			want: []string{"x", "y"},
		},
		{
			name:  "empty",
			items: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(PruneAndSort(tt.items, epoch, RetentionWindow))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PruneAndSort mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPruneAndSortDoesNotMutateInput(t *testing.T) {
	in := []Item{
		{ID: "a", CreatedAt: epoch.Add(-time.Hour)},
		{ID: "b", CreatedAt: epoch},
	}
	PruneAndSort(in, epoch, RetentionWindow)
	if in[0].ID != "a" || in[1].ID != "b" {
		t.Errorf("input reordered: %v", ids(in))
	}
}

func TestMerge(t *testing.T) {
	existing := []Item{
		{ID: "1", Title: "kept", CreatedAt: epoch},
		{ID: "2", Title: "replaced", CreatedAt: epoch.Add(-time.Hour)},
		{ID: "3", Title: "tie-existing", CreatedAt: epoch},
	}
	incoming := []Item{
		{ID: "1", Title: "older-dup", CreatedAt: epoch.Add(-time.Minute)},
		{ID: "2", Title: "newer-dup", CreatedAt: epoch},
		{ID: "3", Title: "tie-incoming", CreatedAt: epoch},
		{ID: "4", Title: "fresh", CreatedAt: epoch},
	}

	got := map[string]string{}
	for _, item := range Merge(existing, incoming) {
		if _, dup := got[item.ID]; dup {
			t.Fatalf("duplicate id %s in merge result", item.ID)
		}
		got[item.ID] = item.Title
	}

	want := map[string]string{
		"1": "kept",
		"2": "newer-dup",
		"3": "tie-existing",
		"4": "fresh",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeDuplicatesWithinIncoming(t *testing.T) {
	incoming := []Item{
		{ID: "z", Title: "first", CreatedAt: epoch.Add(-time.Hour)},
		{ID: "z", Title: "second", CreatedAt: epoch},
	}
	got := Merge(nil, incoming)
	if len(got) != 1 || got[0].Title != "second" {
		t.Errorf("expected single newest item, got %+v", got)
	}
}

func TestCanModify(t *testing.T) {
	item := Item{ID: "1", AuthorID: UserPeter}
	if !CanModify(item, UserPeter) {
		t.Error("author should be able to modify")
	}
	if CanModify(item, UserJonah) {
		t.Error("other user should not modify")
	}
	if CanModify(Item{ID: "2"}, NoUser) {
		t.Error("no user should never modify, even unowned items")
	}
}

func TestParseUser(t *testing.T) {
	tests := []struct {
		in   string
		want User
		ok   bool
	}{
		{"user-Peter-123", UserPeter, true},
		{"peter", UserPeter, true},
		{"Jonah", UserJonah, true},
		{"deadman", UserDeadMan, true},
		{"none", NoUser, true},
		{"", NoUser, true},
		{"user-a", NoUser, false},
		{"mallory", NoUser, false},
	}
	for _, tt := range tests {
		got, ok := ParseUser(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseUser(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUserNames(t *testing.T) {
	if got := UserPeter.ShortName(); got != "Peter" {
		t.Errorf("ShortName = %q", got)
	}
	if got := UserJonah.DisplayName(); got != "J. Jonah Jameson" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := User("solo").ShortName(); got != "solo" {
		t.Errorf("ShortName without dash = %q", got)
	}
	if got := UserWireA.DisplayName(); got != "user-a" {
		t.Errorf("wire DisplayName = %q", got)
	}
}

func TestValidateFields(t *testing.T) {
	if err := ValidateFields("T", "C"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, tc := range [][2]string{{"", "C"}, {"T", "  "}, {"\t", "\n"}} {
		if err := ValidateFields(tc[0], tc[1]); err != ErrEmptyField {
			t.Errorf("ValidateFields(%q, %q) = %v", tc[0], tc[1], err)
		}
	}
}
