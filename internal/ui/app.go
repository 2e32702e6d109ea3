package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abelbrown/dailybugle/internal/logging"
	"github.com/abelbrown/dailybugle/internal/news"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Notices shown to the user. Each one blocks until a key is pressed.
const (
	noticeLoginFirst   = `Please "log in" first to add news.`
	noticeLoginSubmit  = "Please log in to submit news."
	noticeEmptyFields  = "Title and Content cannot be empty."
	noticeEditOwn      = "You can only edit your own news items."
	noticeDeleteOwn    = "You can only delete your own news items."
	noticeEditOthers   = "You cannot edit another user's news item."
	noticeLoadFailed   = "Could not load saved news; starting fresh."
	noticeFetchFailed  = "Simulated fetch failed: "
	noticeDismissHint  = " (press any key to dismiss)"
	loadingStorageText = "Loading news from local storage..."
	loadingFetchText   = "Simulating news fetch..."
	emptyFeedText      = "No news for you :("
)

// Feed is the subset of *news.Store the UI drives.
type Feed interface {
	Hydrate() (news.HydrateResult, error)
	Hydrated() bool
	Loading() bool
	CurrentUser() news.User
	SetCurrentUser(u news.User)
	News() []news.Item
	AddNews(title, content string) (news.Item, error)
	EditNews(id, title, content string) error
	DeleteNews(id string) error
	SimulateFetchNews(ctx context.Context) (news.FetchResult, error)
}

var _ Feed = (*news.Store)(nil)

// Option configures an App.
type Option func(*App)

// WithContext sets the context passed to simulated fetches.
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

// WithNow overrides the clock used for relative timestamps.
func WithNow(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// App is the root Bubble Tea model.
// App holds the injected Feed; every rule lives there, the UI only mirrors it.
type App struct {
	feed Feed
	ctx  context.Context
	now  func() time.Time
	keys keyMap

	spinner spinner.Model
	login   loginModel
	form    formModel

	modal      modalKind
	confirming *news.Item // item awaiting delete confirmation
	notice     string

	items  []news.Item
	cursor int

	didInitialFetch bool
	fetching        int // fetch commands dispatched but not completed

	width  int
	height int
	ready  bool
}

// New creates an App over feed.
func New(feed Feed, opts ...Option) App {
	keys := defaultKeyMap()
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		feed:    feed,
		ctx:     context.Background(),
		now:     time.Now,
		keys:    keys,
		spinner: sp,
		login:   newLoginModel(keys),
		form:    newFormModel(),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Init starts hydration and the spinner.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.hydrateCmd(), a.spinner.Tick)
}

func (a App) hydrateCmd() tea.Cmd {
	feed := a.feed
	return func() tea.Msg {
		res, err := feed.Hydrate()
		return Hydrated{Result: res, Err: err}
	}
}

func (a App) fetchCmd() tea.Cmd {
	feed, ctx := a.feed, a.ctx
	return func() tea.Msg {
		res, err := feed.SimulateFetchNews(ctx)
		return FetchComplete{Result: res, Err: err}
	}
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.form = a.form.setWidth(msg.Width)
		return a, nil

	case Hydrated:
		if msg.Err != nil && !errors.Is(msg.Err, news.ErrAlreadyHydrated) {
			a.notice = noticeLoadFailed
		}
		a.refresh()
		if a.didInitialFetch {
			return a, nil
		}
		a.didInitialFetch = true
		if msg.Result.NeedsFetch {
			logging.Info("Hydration complete, calling simulated fetch.")
			return a.startFetch()
		}
		logging.Info("Hydration complete, news already present in storage.", "items", msg.Result.Items)
		return a, nil

	case FetchComplete:
		if a.fetching > 0 {
			a.fetching--
		}
		if msg.Err != nil {
			a.notice = noticeFetchFailed + msg.Err.Error()
		}
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.modal == modalEditor {
		var cmd tea.Cmd
		a.form, cmd = a.form.updateInput(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) startFetch() (App, tea.Cmd) {
	a.fetching++
	return a, a.fetchCmd()
}

// refresh re-reads the visible feed and clamps the cursor.
func (a *App) refresh() {
	a.items = a.feed.News()
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// A notice blocks until dismissed.
	if a.notice != "" {
		a.notice = ""
		return a, nil
	}

	if key.Matches(msg, a.keys.ForceLogout) {
		return a.logout(), nil
	}

	if a.confirming != nil {
		return a.handleConfirm(msg)
	}

	switch a.modal {
	case modalLogin:
		return a.handleLoginKey(msg)
	case modalEditor:
		return a.handleEditorKey(msg)
	}
	return a.handleFeedKey(msg)
}

func (a App) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	user := a.feed.CurrentUser()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Top):
		a.cursor = 0

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Login):
		if !user.LoggedIn() {
			a.login = newLoginModel(a.keys)
			a.modal = modalLogin
		}

	case key.Matches(msg, a.keys.Logout):
		if user.LoggedIn() {
			return a.logout(), nil
		}

	case key.Matches(msg, a.keys.Add):
		if !user.LoggedIn() {
			a.notice = noticeLoginFirst
			return a, nil
		}
		return a.openEditor(nil)

	case key.Matches(msg, a.keys.Edit):
		item, ok := a.selected()
		if !ok {
			return a, nil
		}
		if !news.CanModify(item, user) {
			a.notice = noticeEditOthers
			return a, nil
		}
		return a.openEditor(&item)

	case key.Matches(msg, a.keys.Delete):
		item, ok := a.selected()
		if !ok {
			return a, nil
		}
		if !news.CanModify(item, user) {
			a.notice = noticeDeleteOwn
			return a, nil
		}
		a.confirming = &item

	case key.Matches(msg, a.keys.Refresh):
		return a.startFetch()
	}
	return a, nil
}

func (a App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var result tea.Msg
	a.login, result = a.login.Update(msg)
	switch r := result.(type) {
	case loginSelected:
		a.feed.SetCurrentUser(r.User)
		a.modal = modalNone
		a.refresh()
	case loginCancelled:
		a.modal = modalNone
	}
	return a, nil
}

func (a App) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Close):
		a = a.closeEditor()
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		return a.submitForm()

	case key.Matches(msg, a.keys.Switch):
		var cmd tea.Cmd
		a.form, cmd = a.form.switchFocus()
		return a, cmd
	}

	if a.form.disabledReason(a.feed.CurrentUser()) != "" {
		return a, nil
	}
	var cmd tea.Cmd
	a.form, cmd = a.form.updateInput(msg)
	return a, cmd
}

func (a App) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Yes):
		item := *a.confirming
		a.confirming = nil
		err := a.feed.DeleteNews(item.ID)
		if errors.Is(err, news.ErrNotAuthor) {
			a.notice = noticeDeleteOwn
		}
		a.refresh()
	case key.Matches(msg, a.keys.No):
		a.confirming = nil
	}
	return a, nil
}

func (a App) openEditor(item *news.Item) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.form, cmd = a.form.open(item)
	a.modal = modalEditor
	return a, cmd
}

func (a App) closeEditor() App {
	a.form = a.form.reset()
	a.modal = modalNone
	return a
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	user := a.feed.CurrentUser()
	if a.form.disabledReason(user) != "" {
		return a, nil
	}

	title, content := a.form.values()
	if err := news.ValidateFields(title, content); err != nil {
		a.notice = noticeEmptyFields
		return a, nil
	}
	if !user.LoggedIn() {
		a.notice = noticeLoginSubmit
		return a, nil
	}

	adding := a.form.editing == nil
	var err error
	if !adding {
		err = a.feed.EditNews(a.form.editing.ID, title, content)
	} else {
		_, err = a.feed.AddNews(title, content)
	}

	switch {
	case errors.Is(err, news.ErrNotLoggedIn):
		a.notice = noticeLoginFirst
	case errors.Is(err, news.ErrNotAuthor), errors.Is(err, news.ErrNotFound):
		a.notice = noticeEditOwn
	}

	a = a.closeEditor()
	a.refresh()
	if err == nil && adding {
		a.cursor = 0
	}
	return a, nil
}

// logout clears the session. Only an open editor is closed; the login
// modal and the feed are left as they are.
func (a App) logout() App {
	a.feed.SetCurrentUser(news.NoUser)
	a.confirming = nil
	if a.modal == modalEditor {
		a = a.closeEditor()
	}
	a.refresh()
	return a
}

func (a App) selected() (news.Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return news.Item{}, false
	}
	return a.items[a.cursor], true
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	user := a.feed.CurrentUser()
	header := a.renderHeader(user)
	status := RenderStatusBar(a.cursor, len(a.items), user, a.width, a.loading())

	var bars []string
	if a.notice != "" {
		bars = append(bars, NoticeStyle.Width(a.width).Render(a.notice+noticeDismissHint))
	}
	if a.confirming != nil {
		bars = append(bars, ConfirmStyle.Width(a.width).Render(
			`Are you sure you want to delete "`+a.confirming.Title+`"? (y/n)`))
	}

	bodyHeight := a.height - lipgloss.Height(header) - 1 - len(bars)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch a.modal {
	case modalLogin:
		body = renderModal("Login", a.login.View(), a.width, bodyHeight)
	case modalEditor:
		body = renderModal(a.form.modalTitle(), a.form.View(user), a.width, bodyHeight)
	default:
		body = a.renderBody(user, bodyHeight)
	}

	parts := []string{header, body}
	parts = append(parts, bars...)
	parts = append(parts, status)
	return strings.Join(parts, "\n")
}

func (a App) renderHeader(user news.User) string {
	line := Masthead.Render("The Daily Bugle")
	if user.LoggedIn() {
		line += AuthInfo.Render("Logged in as: " + user.ShortName())
	}
	return line + "\n" + SectionHeader.Render("News Feed")
}

func (a App) renderBody(user news.User, height int) string {
	switch {
	case !a.feed.Hydrated():
		return HelpStyle.Render(loadingStorageText)
	case a.loading():
		return HelpStyle.Render(a.spinner.View() + " " + loadingFetchText)
	case len(a.items) == 0:
		return HelpStyle.Render(emptyFeedText)
	}
	return RenderFeed(a.items, a.cursor, user, a.now(), a.width, height)
}

func (a App) loading() bool {
	return a.fetching > 0 || a.feed.Loading()
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the current items (for testing).
func (a App) Items() []news.Item {
	return a.items
}

// Modal returns the open modal name (for testing).
func (a App) Modal() string {
	return a.modal.String()
}

// Notice returns the pending notice, if any (for testing).
func (a App) Notice() string {
	return a.notice
}
