// Package teaui hosts the Bubble Tea program for the logger TUI.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/logger/pkg/app"
	"tableflip.dev/logger/pkg/composer"
	"tableflip.dev/logger/pkg/state"
	"tableflip.dev/logger/pkg/tui/components/eventviewer"
	"tableflip.dev/logger/pkg/tui/components/help"
	"tableflip.dev/logger/pkg/tui/theme"
	"tableflip.dev/logger/pkg/viewmodel"
)

type mode int

const (
	modeNormal mode = iota
	modeActions
	modeConfirm
	modePhoto
	modeHelp
)

func (m mode) String() string {
	switch m {
	case modeActions:
		return "actions"
	case modeConfirm:
		return "confirm"
	case modePhoto:
		return "photo"
	case modeHelp:
		return "help"
	default:
		return "normal"
	}
}

const (
	eventPaneHeight = 8
	searchIcon      = "⌕"
)

var errServiceUnavailable = errors.New("service unavailable")

// Model contains UI state
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc
	mode   mode

	composer *composer.Machine
	input    textinput.Model
	prompt   textinput.Model

	// submitting is set while the draft is being stored.
	submitting bool

	searching   bool
	nextQuery   string
	queryParked bool
	search      state.Search

	entries    viewmodel.Model
	list       viewport.Model
	rowStart   []int
	selectedID int64

	actions     []action
	actionIndex int
	confirmID   int64

	snapCh     <-chan state.Snapshot
	snapCancel context.CancelFunc

	help       *help.Model
	events     *eventviewer.Model
	showEvents bool

	termWidth  int
	termHeight int

	status    string
	statusErr bool

	theme theme.Theme
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service) *Model {
	return NewWithTheme(svc, theme.Default())
}

// NewWithTheme creates a UI model with an explicit theme.
func NewWithTheme(svc *app.Service, th theme.Theme) *Model {
	machine := composer.New(composer.Options{})

	ti := textinput.New()
	ti.Placeholder = machine.Placeholder()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Focus()
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")
	ti.Styles.Cursor.Shape = tea.CursorBlock
	ti.Styles.Cursor.Blink = true

	prompt := textinput.New()
	prompt.Prompt = "Photo: "
	prompt.Placeholder = "path to an image"

	vp := viewport.New(
		viewport.WithWidth(40),
		viewport.WithHeight(10),
	)

	events := eventviewer.New(200, eventviewer.Styles{
		Frame:  th.Events.Frame,
		Header: th.Events.Header,
		Info:   th.Events.Info,
		Error:  th.Events.Error,
		Time:   th.Events.Time,
	})

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:      svc,
		ctx:      ctx,
		cancel:   cancel,
		mode:     modeNormal,
		composer: machine,
		input:    ti,
		prompt:   prompt,
		list:     vp,
		help:     help.New(40, 10, help.Options{Dark: th.Dark, Keys: keyHelp}),
		events:   events,
		theme:    th,
	}
	m.renderList()
	return m
}

// Init subscribes to snapshots.
func (m *Model) Init() tea.Cmd {
	return startSubscribeCmd(m.ctx, m.svc)
}

type subscribeStartedMsg struct {
	ch     <-chan state.Snapshot
	cancel context.CancelFunc
	err    error
}

func (m subscribeStartedMsg) Describe() string {
	if m.err != nil {
		return "err:" + m.err.Error()
	}
	return "subscribed"
}

type snapshotMsg struct {
	snap state.Snapshot
}

func (m snapshotMsg) Describe() string { return m.snap.Describe() }

type subscribeStoppedMsg struct{}

type errMsg struct{ err error }

func (m errMsg) Describe() string { return m.err.Error() }

type statusMsg struct{ text string }

func (m statusMsg) Describe() string { return m.text }

func startSubscribeCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Subscribe(ctx)
		if err != nil {
			cancel()
			return subscribeStartedMsg{err: err}
		}
		return subscribeStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	if m.snapCh == nil {
		return nil
	}
	ch := m.snapCh
	return func() tea.Msg {
		if snap, ok := <-ch; ok {
			return snapshotMsg{snap: snap}
		}
		return subscribeStoppedMsg{}
	}
}

func (m *Model) stopSubscription() {
	if m.snapCancel != nil {
		m.snapCancel()
		m.snapCancel = nil
	}
	m.snapCh = nil
}

// applySnapshot feeds a snapshot through the reconciliation model. Only a
// change to the entries pins the list to the newest entry.
func (m *Model) applySnapshot(snap state.Snapshot) {
	entriesChanged := m.entries.ApplyEntries(snap)
	searchChanged := m.entries.ApplySearch(snap)
	if snap.Search.Active != m.search.Active || snap.Search.Query != m.search.Query {
		searchChanged = true
	}
	m.search = snap.Search
	if !entriesChanged && !searchChanged {
		return
	}
	if _, ok := m.indexOf(m.selectedID); !ok {
		m.selectedID = 0
	}
	m.renderList()
	if entriesChanged {
		m.list.GotoBottom()
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.events.Record("tea", msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.setError(msg.err)
	case statusMsg:
		m.setStatus(msg.text)
	case subscribeStartedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("subscribe: %w", msg.err))
			break
		}
		m.stopSubscription()
		m.snapCh = msg.ch
		m.snapCancel = msg.cancel
		if cmd := m.waitForSnapshot(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case snapshotMsg:
		m.applySnapshot(msg.snap)
		if cmd := m.waitForSnapshot(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case subscribeStoppedMsg:
		m.stopSubscription()
		if m.ctx.Err() == nil {
			cmds = append(cmds, startSubscribeCmd(m.ctx, m.svc))
		}
	case entryCreatedMsg:
		m.handleCreated(msg)
	case createFailedMsg:
		m.submitting = false
		m.setError(msg.err)
	case searchDoneMsg:
		m.handleSearchDone(msg, &cmds)
	case entryDeletedMsg:
		if m.selectedID == msg.id {
			m.selectedID = 0
			m.renderList()
		}
		m.setStatus(fmt.Sprintf("Deleted entry %d", msg.id))
	case tea.KeyPressMsg:
		if cmd := m.handleKeyPress(msg, &cmds); cmd != nil {
			return m, cmd
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress routes keys by mode. A non-nil return short-circuits Update,
// which is only used for quitting.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.stopSubscription()
		m.cancel()
		return tea.Quit
	}
	switch m.mode {
	case modeHelp:
		m.handleHelpKey(msg, cmds)
	case modeActions:
		m.handleActionKey(msg, cmds)
	case modeConfirm:
		m.handleConfirmKey(msg, cmds)
	case modePhoto:
		m.handlePhotoKey(msg, cmds)
	default:
		m.handleNormalKey(msg, cmds)
	}
	return nil
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "?", "f1":
		m.setMode(modeNormal)
	default:
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "f1":
		m.setMode(modeHelp)
	case "?":
		if m.composer.Mode() == composer.Empty {
			m.setMode(modeHelp)
			return
		}
		m.handleComposerKey(msg, cmds)
	case "ctrl+d":
		m.showEvents = !m.showEvents
		m.applySizes()
	case "up":
		m.moveSelection(-1)
	case "down":
		m.moveSelection(1)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		*cmds = append(*cmds, cmd)
	case "tab":
		m.openActions()
	case "enter":
		m.handleEvents(m.composer.Primary(), cmds)
		m.syncInput()
	case "esc":
		if m.selectedID != 0 {
			m.selectedID = 0
			m.renderList()
			return
		}
		m.handleEvents(m.composer.Reset(), cmds)
		m.syncInput()
	case "ctrl+p":
		m.openPhotoPrompt()
	default:
		m.handleComposerKey(msg, cmds)
	}
}

func (m *Model) setMode(newMode mode) {
	m.mode = newMode
	if newMode == modeNormal {
		m.input.Focus()
		m.prompt.Blur()
	} else {
		m.input.Blur()
	}
	m.applySizes()
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.status = "ERR: " + err.Error()
	m.statusErr = true
}

// Run launches the interactive TUI program.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// applySizes recalculates component sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	layout := m.composer.Layout(m.composerWidth())
	reserve := layout.Height + 2 // composer border + status line
	if m.showEvents {
		reserve += eventPaneHeight
	}
	height := m.termHeight - reserve
	if height < 3 {
		height = 3
	}
	m.list.SetWidth(m.termWidth)
	m.list.SetHeight(height)
	m.help.SetSize(m.termWidth, height)
	m.events.SetSize(m.termWidth, eventPaneHeight)
	m.input.SetWidth(m.composerWidth() - layout.Indent)
	m.prompt.SetWidth(m.termWidth - 10)
	m.renderList()
}

// composerWidth is the room left for text after the stage label.
func (m *Model) composerWidth() int {
	w := m.termWidth - len(stageLabel(composer.StageClear)) - 1
	if w < 10 {
		w = 10
	}
	return w
}

func stageLabel(s composer.Stage) string {
	return "[" + s.String() + "]"
}

func (m *Model) View() string {
	var sections []string

	switch m.mode {
	case modeHelp:
		sections = append(sections, m.help.View())
	case modeActions:
		sections = append(sections, m.renderActions())
	case modeConfirm:
		sections = append(sections, m.renderConfirm())
	case modePhoto:
		sections = append(sections, m.renderPhotoPrompt())
	default:
		sections = append(sections, m.list.View())
	}
	if m.showEvents {
		sections = append(sections, m.events.View())
	}
	sections = append(sections, m.renderComposer(), m.renderStatus())
	return strings.Join(sections, "\n")
}

func (m *Model) renderStatus() string {
	if m.statusErr {
		return m.theme.Footer.Error.Render(m.status)
	}
	if m.status != "" {
		return m.theme.Footer.Status.Render(m.status)
	}
	return m.theme.Footer.Help.Render("enter " + m.composer.Stage().String() + " · space search · tab actions · ? help")
}
