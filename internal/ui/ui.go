package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ymx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	InputView
	ConfirmView
	RunningView
	ResultView
)

// ActionFunc performs one menu action and returns a printable summary.
//
// input is the text entered when the action has a prompt. Progress updates are optional.
type ActionFunc func(ctx context.Context, input string, progress chan<- tasks.ProgressUpdate) (string, error)

// Action is one entry of the main menu.
type Action struct {
	Title       string
	Description string
	Prompt      string // asks for a line of input before running when set
	Confirm     bool   // asks y/n before running when set
	Run         ActionFunc
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	view     ViewState
	actions  []Action
	selected int
	input    string
	width    int
	height   int
	menu     list.Model
	prompt   textinput.Model
	spinner  spinner.Model
	progress tasks.ProgressUpdate
	reported bool
	updates  chan tasks.ProgressUpdate
	done     chan actionOutcome
	summary  string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model presenting actions in order.
func NewModel(ctx context.Context, actions []Action) *Model {
	items := make([]list.Item, len(actions))
	for i, a := range actions {
		items[i] = actionItem{index: i, action: a}
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Yandex Music → YouTube Music"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	prompt := textinput.New()
	prompt.CharLimit = 256

	return &Model{
		ctx:     ctx,
		view:    MenuView,
		actions: actions,
		menu:    menu,
		prompt:  prompt,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, actions []Action) error {
	_, err := tea.NewProgram(NewModel(ctx, actions), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case RunningView:
			return m.handleRunningKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != RunningView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			m.reported = true
			return m, m.waitForProgress()
		case MsgActionComplete:
			outcome := msg.data.(actionOutcome)
			m.summary = outcome.summary
			m.err = outcome.err
			m.view = ResultView
			m.updates, m.done = nil, nil
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return m.renderMenu()
	case InputView:
		return m.renderInput()
	case ConfirmView:
		return m.renderConfirm()
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) current() Action {
	return m.actions[m.selected]
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		item, ok := m.menu.SelectedItem().(actionItem)
		if !ok {
			return m, nil
		}
		return m.choose(item.index)
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if idx := int(s[0] - '1'); idx < len(m.actions) {
			m.menu.Select(idx)
			return m.choose(idx)
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// choose moves from the menu to the first step the chosen action needs.
func (m *Model) choose(idx int) (tea.Model, tea.Cmd) {
	m.selected = idx
	m.input = ""
	m.summary, m.err = "", nil

	action := m.current()
	switch {
	case action.Prompt != "":
		m.prompt.Reset()
		m.prompt.Placeholder = action.Prompt
		m.view = InputView
		return m, m.prompt.Focus()
	case action.Confirm:
		m.view = ConfirmView
		return m, nil
	default:
		return m, m.start()
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.prompt.Blur()
		m.view = MenuView
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.prompt.Value())
		if value == "" {
			return m, nil
		}
		m.input = value
		m.prompt.Blur()
		if m.current().Confirm {
			m.view = ConfirmView
			return m, nil
		}
		return m, m.start()
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.start()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = MenuView
		return m, nil
	}
	return m, nil
}

// handleRunningKeys cancels the running action; its partial outcome still arrives as [MsgActionComplete].
func (m *Model) handleRunningKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.cancel) && m.cancel != nil {
		m.cancel()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.menu), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = MenuView
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

// start runs the selected action in a goroutine and begins relaying its progress.
func (m *Model) start() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.view = RunningView
	m.progress = tasks.ProgressUpdate{}
	m.reported = false

	updates := make(chan tasks.ProgressUpdate, 50)
	done := make(chan actionOutcome, 1)
	m.updates, m.done = updates, done

	run, input := m.current().Run, m.input
	go func() {
		summary, err := run(ctx, input, updates)
		done <- actionOutcome{summary: summary, err: err}
		close(updates)
	}()

	return tea.Batch(m.spinner.Tick, waitFor(updates, done))
}

func (m *Model) waitForProgress() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return waitFor(m.updates, m.done)
}

// waitFor yields the next progress update, or the action outcome once updates is closed.
func waitFor(updates <-chan tasks.ProgressUpdate, done <-chan actionOutcome) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			outcome := <-done
			return actionCompleteMsg(outcome.summary, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.quit}
	return fmt.Sprintf("%s\n%s", m.menu.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderInput() string {
	title := styles.title.Render(m.current().Title)
	helpKeys := []key.Binding{m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.prompt.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	action := m.current()
	title := styles.title.Render(fmt.Sprintf("%s?", action.Title))

	info := action.Description
	if m.input != "" {
		info = fmt.Sprintf("%s\nInput: %s", info, m.input)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderRunning() string {
	title := styles.title.Render(m.current().Title)

	phase := "Starting..."
	if m.reported {
		phase = phaseLabel(m.progress)
	}
	if m.progress.Total > 0 {
		phase = fmt.Sprintf("%s %s %d/%d", phase, styles.bar(m.progress.Step, m.progress.Total, 30), m.progress.Step, m.progress.Total)
	}

	helpKeys := []key.Binding{m.keys.cancel}
	return fmt.Sprintf("%s\n%s %s\n%s\n\n%s",
		title, m.spinner.View(), phase, styles.help.Render(m.progress.Message), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.menu, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("✗ %s failed: %v", m.current().Title, m.err))
		if m.summary != "" {
			body = fmt.Sprintf("%s\n\n%s", body, m.summary)
		}
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	title := styles.ok.Render(fmt.Sprintf("✓ %s", m.current().Title))
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.summary, helpView)
}

func phaseLabel(update tasks.ProgressUpdate) string {
	switch update.Phase {
	case tasks.FetchLiked:
		return "Fetching liked tracks..."
	case tasks.ExportTracks:
		return "Resolving tracks"
	case tasks.ImportTracks:
		return "Liking tracks"
	case tasks.FetchPlaylists:
		return "Fetching playlists..."
	case tasks.FetchPlaylist:
		return "Reading playlists"
	case tasks.Coverage:
		return "Comparing with liked songs..."
	case tasks.BuildMap:
		return "Collecting artists"
	case tasks.Distribute:
		return "Adding to playlists"
	default:
		return "Processing..."
	}
}
