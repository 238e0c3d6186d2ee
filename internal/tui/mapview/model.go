// Package mapview is the interactive map screen: a lock screen until the
// auth gate opens, then a pannable grid with a center crosshair, the pin
// list, the place details prompt and the editor form.
package mapview

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/marcus/places/internal/auth"
	"github.com/marcus/places/internal/editor"
	"github.com/marcus/places/internal/geo"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/search"
	"github.com/marcus/places/internal/session"
)

// MinWidth is the minimum terminal width for proper display
const MinWidth = 60

// MinHeight is the minimum terminal height for proper display
const MinHeight = 16

const (
	minScale = 1e-5
	maxScale = 45.0
)

// Options configure a Model.
type Options struct {
	Auth       *auth.Session
	Controller *session.Controller
	// Passphrase, when set, is filled from the lock screen input before
	// each unlock attempt.
	Passphrase *PassphraseBuffer
	// UnlockReason is shown on the lock screen.
	UnlockReason string
	// PanStep is how far one pan key moves the center, in degrees.
	PanStep float64
	// AutoUnlock starts a credential check as soon as the program starts.
	AutoUnlock bool
	// LoadWarning is shown once the map is visible.
	LoadWarning error
}

// Model is the main Bubble Tea model for the map TUI
type Model struct {
	auth       *auth.Session
	ctrl       *session.Controller
	passphrase *PassphraseBuffer
	reason     string
	autoUnlock bool

	// Window dimensions
	Width  int
	Height int

	// Map state
	panStep float64
	scale   float64 // degrees of longitude per column

	// UI state
	keys          keyMap
	help          help.Model
	passInput     textinput.Model
	searchInput   textinput.Model
	SearchMode    bool
	SearchResults []models.Annotation
	DetailsOpen   bool
	Editor        *editor.State
	Status        string
	StatusIsError bool
}

// unlockResultMsg carries the result of a credential check.
type unlockResultMsg struct {
	err error
}

// NewModel creates a new map model
func NewModel(opts Options) Model {
	step := opts.PanStep
	if step <= 0 {
		step = 0.01
	}

	passInput := textinput.New()
	passInput.Placeholder = "passphrase"
	passInput.EchoMode = textinput.EchoPassword
	passInput.EchoCharacter = '•'
	passInput.CharLimit = 200
	passInput.Width = 30
	passInput.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "search places"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 200
	searchInput.Width = 40

	m := Model{
		auth:        opts.Auth,
		ctrl:        opts.Controller,
		passphrase:  opts.Passphrase,
		reason:      opts.UnlockReason,
		autoUnlock:  opts.AutoUnlock,
		panStep:     step,
		scale:       step,
		keys:        defaultKeyMap(),
		help:        help.New(),
		passInput:   passInput,
		searchInput: searchInput,
	}
	if opts.LoadWarning != nil {
		m.setError(fmt.Sprintf("saved places unreadable, starting empty: %v", opts.LoadWarning))
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.autoUnlock || m.passphrase == nil {
		return m.requestUnlock()
	}
	return textinput.Blink
}

// requestUnlock asks the auth session for a credential check and runs it
// off the update loop. The result comes back as an unlockResultMsg.
func (m Model) requestUnlock() tea.Cmd {
	check := m.auth.RequestUnlock()
	if check == nil {
		return nil
	}
	return func() tea.Msg {
		return unlockResultMsg{err: check(context.Background())}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		if m.Editor != nil {
			m.Editor.Form = m.Editor.Form.WithWidth(min(msg.Width-4, 60))
		}

	case unlockResultMsg:
		m.auth.Resolve(msg.err)
		if m.auth.Unlocked() {
			m.passInput.Blur()
		}
		return m, nil
	}

	if m.Editor != nil {
		return m.updateEditor(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forwardToInputs(msg)
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case !m.auth.Unlocked():
		return m.handleLockKey(keyMsg)
	case m.DetailsOpen:
		return m.handleDetailsKey(keyMsg)
	case m.SearchMode:
		return m.handleSearchKey(keyMsg)
	}
	return m.handleMapKey(keyMsg)
}

// forwardToInputs passes non-key messages (cursor blink) to the focused input.
func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case !m.auth.Unlocked():
		m.passInput, cmd = m.passInput.Update(msg)
	case m.SearchMode:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// handleLockKey processes keys on the lock screen
func (m Model) handleLockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.State().Phase == auth.Authenticating {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.passphrase != nil {
			m.passphrase.Set(m.passInput.Value())
			m.passInput.Reset()
		}
		return m, m.requestUnlock()
	}
	if m.passphrase == nil {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.passInput, cmd = m.passInput.Update(msg)
	return m, cmd
}

// handleMapKey processes keys on the map
func (m Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.pan(m.panStep, 0)
	case key.Matches(msg, m.keys.Down):
		m.pan(-m.panStep, 0)
	case key.Matches(msg, m.keys.Left):
		m.pan(0, -m.panStep)
	case key.Matches(msg, m.keys.Right):
		m.pan(0, m.panStep)

	case key.Matches(msg, m.keys.ZoomIn):
		m.scale = max(m.scale/2, minScale)
	case key.Matches(msg, m.keys.ZoomOut):
		m.scale = min(m.scale*2, maxScale)

	case key.Matches(msg, m.keys.Drop):
		return m.dropPin()

	case key.Matches(msg, m.keys.Next):
		m.ctrl.SelectNext()
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.SelectPrev()
	case key.Matches(msg, m.keys.Nearest):
		if _, ok := m.ctrl.SelectNearest(); !ok {
			m.setStatus("no places yet")
		}
	case key.Matches(msg, m.keys.Center):
		if a, ok := m.ctrl.Selected(); ok {
			m.ctrl.SetCenter(a.Coordinate())
		}

	case key.Matches(msg, m.keys.Details):
		if _, ok := m.ctrl.Selected(); ok {
			m.DetailsOpen = true
		}
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearSelection()

	case key.Matches(msg, m.keys.Search):
		m.SearchMode = true
		m.searchInput.Reset()
		m.SearchResults = m.ctrl.Annotations()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// pan moves the tracked center, wrapping longitude and clamping latitude.
func (m *Model) pan(dLat, dLon float64) {
	c := m.ctrl.Center()
	m.ctrl.SetCenter(models.Coordinate{
		Latitude:  geo.ClampLatitude(c.Latitude + dLat),
		Longitude: geo.WrapLongitude(c.Longitude + dLon),
	})
}

// dropPin adds a pin at the center and opens the editor on it.
func (m Model) dropPin() (tea.Model, tea.Cmd) {
	if _, ok := m.ctrl.DropPinAtCenter(); !ok {
		return m, nil
	}
	return m.openEditor()
}

// openEditor builds the form for the session's open edit.
func (m Model) openEditor() (tea.Model, tea.Cmd) {
	title, subtitle, err := m.ctrl.EditorValues()
	if err != nil {
		m.ctrl.CancelEditor()
		m.setError(err.Error())
		return m, nil
	}
	m.Editor = editor.New(m.ctrl.SelectedID(), title, subtitle)
	if m.Width > 0 {
		m.Editor.Form = m.Editor.Form.WithWidth(min(m.Width-4, 60))
	}
	return m, m.Editor.Form.Init()
}

// handleDetailsKey processes keys on the place details prompt: OK or Edit.
func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "o", "esc", "q":
		m.DetailsOpen = false
	case "e":
		m.DetailsOpen = false
		if err := m.ctrl.OpenEditor(); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		return m.openEditor()
	}
	return m, nil
}

// handleSearchKey processes keys while searching
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeSearch()
		return m, nil
	case tea.KeyEnter:
		if len(m.SearchResults) > 0 {
			a := m.SearchResults[0]
			if err := m.ctrl.SelectAnnotation(a.ID); err == nil {
				m.ctrl.SetCenter(a.Coordinate())
			}
		} else {
			m.setStatus("no match")
		}
		m.closeSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.SearchResults = search.Filter(m.searchInput.Value(), m.ctrl.Annotations())
	return m, cmd
}

func (m *Model) closeSearch() {
	m.SearchMode = false
	m.SearchResults = nil
	m.searchInput.Blur()
}

// updateEditor forwards messages to the huh form and commits or cancels
// when it finishes.
func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.cancelEditor()
			return m, nil
		case tea.KeyCtrlS:
			m.commitEditor()
			return m, nil
		}
	}

	form, cmd := m.Editor.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Editor.Form = f
	}

	switch {
	case m.Editor.Completed():
		m.commitEditor()
		return m, nil
	case m.Editor.Aborted():
		m.cancelEditor()
		return m, nil
	}
	return m, cmd
}

// commitEditor hands the form values to the session, which saves.
func (m *Model) commitEditor() {
	title, subtitle := m.Editor.Values()
	m.Editor = nil

	if err := m.ctrl.CommitEdit(title, subtitle); err != nil {
		if errors.Is(err, session.ErrLocked) {
			m.setError("locked")
			return
		}
		m.setError(err.Error())
		return
	}
	if err := m.ctrl.LastSaveError(); err != nil {
		m.setError(fmt.Sprintf("not saved: %v", err))
		return
	}
	m.setStatus("saved")
}

func (m *Model) cancelEditor() {
	m.Editor = nil
	m.ctrl.CancelEditor()
}

func (m *Model) setStatus(s string) {
	m.Status, m.StatusIsError = s, false
}

func (m *Model) setError(s string) {
	m.Status, m.StatusIsError = s, true
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}
