package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/dailybugle/internal/news"
)

func sampleState() news.State {
	ts := time.Date(2026, 10, 14, 9, 30, 0, 123_000_000, time.UTC)
	return news.State{
		CurrentUser: news.UserPeter,
		News: []news.Item{
			{ID: "id-1", Title: "Spider-Man menace", Content: "Photos inside", CreatedAt: ts, AuthorID: news.UserJonah},
			{ID: "id-2", Title: "Weather", Content: "Rain", CreatedAt: ts.Add(-time.Hour), AuthorID: news.UserWireA},
		},
	}
}

func assertSameState(t *testing.T, want, got news.State) {
	t.Helper()
	if got.CurrentUser != want.CurrentUser {
		t.Errorf("current user: want %q, got %q", want.CurrentUser, got.CurrentUser)
	}
	if len(got.News) != len(want.News) {
		t.Fatalf("news length: want %d, got %d", len(want.News), len(got.News))
	}
	for i := range want.News {
		w, g := want.News[i], got.News[i]
		if w.ID != g.ID || w.Title != g.Title || w.Content != g.Content || w.AuthorID != g.AuthorID {
			t.Errorf("item %d: want %+v, got %+v", i, w, g)
		}
		if !w.CreatedAt.Equal(g.CreatedAt) {
			t.Errorf("item %d createdAt: want %v, got %v", i, w.CreatedAt, g.CreatedAt)
		}
	}
}

func TestEncodeShape(t *testing.T) {
	data, err := Encode(news.State{News: []news.Item{{
		ID:        "abc",
		Title:     "T",
		Content:   "C",
		CreatedAt: time.UnixMilli(1700000000123),
		AuthorID:  "user-a",
	}}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if raw["version"] != float64(0) {
		t.Errorf("expected version 0, got %v", raw["version"])
	}
	state := raw["state"].(map[string]any)
	if v, ok := state["currentUser"]; !ok || v != nil {
		t.Errorf("logged-out user should encode as null, got %v (present=%v)", v, ok)
	}
	item := state["news"].([]any)[0].(map[string]any)
	if item["createdAt"] != float64(1700000000123) {
		t.Errorf("createdAt should be unix millis, got %v", item["createdAt"])
	}
	if item["authorId"] != "user-a" {
		t.Errorf("authorId = %v", item["authorId"])
	}
}

func TestDecodeBrowserRecord(t *testing.T) {
	raw := `{"state":{"news":[{"id":"u1","title":"Hello","content":"World","createdAt":1760400000000,"authorId":"user-Peter-123"}],"currentUser":"user-Jonah-456"},"version":0}`
	state, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if state.CurrentUser != news.UserJonah {
		t.Errorf("current user = %q", state.CurrentUser)
	}
	if len(state.News) != 1 || state.News[0].AuthorID != news.UserPeter {
		t.Fatalf("unexpected news: %+v", state.News)
	}
	if got := state.News[0].CreatedAt.UnixMilli(); got != 1760400000000 {
		t.Errorf("createdAt millis = %d", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		`not json`,
		`{"state":{"news":[{"title":"no id"}]}}`,
	}
	for _, raw := range cases {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%q) should fail", raw)
		}
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	st, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer st.Close()

	if _, found, err := st.Load(); err != nil || found {
		t.Fatalf("empty db: found=%v err=%v", found, err)
	}

	want := sampleState()
	if err := st.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Second save overwrites the same key.
	want.CurrentUser = news.UserDeadMan
	if err := st.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, found, err := st.Load()
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	assertSameState(t, want, got)

	var rows int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 row, got %d", rows)
	}

	if _, ok, err := st.UpdatedAt(); err != nil || !ok {
		t.Errorf("UpdatedAt: ok=%v err=%v", ok, err)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found, _ := st.Load(); found {
		t.Error("record should be gone after Clear")
	}
}

func TestSQLiteFileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bugle.db")
	st, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	want := sampleState()
	if err := st.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	st.Close()

	st, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()
	got, found, err := st.Load()
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	assertSameState(t, want, got)
}

func TestSQLiteMalformedRecord(t *testing.T) {
	st, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer st.Close()

	if _, err := st.db.Exec("INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)", StateKey, "{broken", time.Now()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, _, err := st.Load(); err == nil {
		t.Error("expected decode error")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if _, found, err := f.Load(); err != nil || found {
		t.Fatalf("missing file: found=%v err=%v", found, err)
	}

	want := sampleState()
	if err := f.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, found, err := f.Load()
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	assertSameState(t, want, got)

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".dailybugle-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	if err := f.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := f.Clear(); err != nil {
		t.Errorf("second Clear should be a no-op: %v", err)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	want := sampleState()
	if err := m.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, found, err := m.Load()
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	assertSameState(t, want, got)

	m.Put([]byte("garbage"))
	if _, found, err := m.Load(); err == nil || !found {
		t.Errorf("garbage record: found=%v err=%v", found, err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		opts Options
		ok   bool
	}{
		{Options{Backend: "", DBPath: filepath.Join(dir, "a.db")}, true},
		{Options{Backend: BackendSQLite, DBPath: filepath.Join(dir, "b.db")}, true},
		{Options{Backend: BackendFile, StateFile: filepath.Join(dir, "s.json")}, true},
		{Options{Backend: BackendMemory}, true},
		{Options{Backend: "redis"}, false},
	}
	for _, tc := range cases {
		repo, err := Open(tc.opts)
		if tc.ok && err != nil {
			t.Errorf("Open(%+v) failed: %v", tc.opts, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Open(%+v) should fail", tc.opts)
		}
		if repo != nil {
			repo.Close()
		}
	}
}

// TestStoreIntegration checks the news store hydrates what it persisted.
func TestStoreIntegration(t *testing.T) {
	repo, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer repo.Close()

	s := news.NewStore(repo)
	if _, err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	s.SetCurrentUser(news.UserPeter)
	item, err := s.AddNews("Headline", "Body")
	if err != nil {
		t.Fatalf("AddNews failed: %v", err)
	}

	reloaded := news.NewStore(repo)
	res, err := reloaded.Hydrate()
	if err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	if res.NeedsFetch {
		t.Error("persisted feed should not need a fetch")
	}
	if reloaded.CurrentUser() != news.UserPeter {
		t.Errorf("current user = %q", reloaded.CurrentUser())
	}
	got, ok := reloaded.Item(item.ID)
	if !ok || got.Title != "Headline" {
		t.Errorf("item not restored: %+v ok=%v", got, ok)
	}
}
