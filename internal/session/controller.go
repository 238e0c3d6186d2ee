// Package session drives a map session: the tracked map center, the
// selected annotation and the modal editor, on top of the annotation store.
// Nothing here touches the store unless the auth gate is unlocked.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/places/internal/geo"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/storage"
	"github.com/marcus/places/internal/store"
)

// Text shown by the place details prompt when a pin has no title or
// subtitle of its own.
const (
	UnknownTitle    = "Unknown"
	MissingSubtitle = "Missing place information."
)

var (
	// ErrLocked means the auth gate has not been unlocked.
	ErrLocked = errors.New("places are locked")
	// ErrEditorOpen means an edit session is already in progress.
	ErrEditorOpen = errors.New("editor already open")
	// ErrEditorClosed means there is no edit session to commit.
	ErrEditorClosed = errors.New("editor is not open")
	// ErrNoSelection means no annotation is selected.
	ErrNoSelection = errors.New("no annotation selected")
)

// Gate reports whether the notebook has been unlocked. *auth.Session
// satisfies it.
type Gate interface {
	Unlocked() bool
}

// State is a snapshot of the transient session state.
type State struct {
	Center     models.Coordinate
	SelectedID string
	EditorOpen bool
}

// Controller owns the session state. It holds only the id of the selected
// annotation; the store stays the sole owner of the records.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	gate    Gate
	store   *store.Store
	gateway storage.Gateway

	center     models.Coordinate
	selectedID string
	editorOpen bool

	lastSaveErr error
}

// New returns a controller with an empty selection and closed editor.
func New(gate Gate, st *store.Store, gw storage.Gateway) *Controller {
	return &Controller{gate: gate, store: st, gateway: gw}
}

// Load replaces the store content with the persisted collection. A
// returned error is a warning: the store is then empty and the session can
// continue. Records loaded without an id get one, and the collection is
// written back once so the ids survive the next load.
func (c *Controller) Load() error {
	annotations, err := c.gateway.Load()
	if err != nil {
		slog.Warn("session: load saved places", "err", err)
	}
	assigned := c.store.ReplaceAll(annotations)
	slog.Debug("session: loaded saved places", "count", c.store.Len())
	if assigned > 0 {
		slog.Info("session: assigned ids to saved places", "count", assigned)
		if err == nil {
			c.save()
		}
	}
	return err
}

// State returns the current center, selection and editor flag.
func (c *Controller) State() State {
	return State{Center: c.center, SelectedID: c.selectedID, EditorOpen: c.editorOpen}
}

// Center returns the last reported map center.
func (c *Controller) Center() models.Coordinate {
	return c.center
}

// SetCenter records the latest map center. Later calls overwrite earlier
// ones.
func (c *Controller) SetCenter(coord models.Coordinate) {
	c.center = coord
}

// EditorOpen reports whether an edit session is in progress.
func (c *Controller) EditorOpen() bool {
	return c.editorOpen
}

// Annotations returns the collection to render, or nil while locked.
func (c *Controller) Annotations() []models.Annotation {
	if !c.gate.Unlocked() {
		return nil
	}
	return c.store.All()
}

// DropPinAtCenter adds a placeholder annotation at the tracked center,
// selects it and opens the editor. It does nothing and returns false while
// locked or while the editor is already open.
func (c *Controller) DropPinAtCenter() (string, bool) {
	if !c.gate.Unlocked() || c.editorOpen {
		return "", false
	}
	id := c.store.Add(c.center)
	c.selectedID = id
	c.editorOpen = true
	return id, true
}

// SelectAnnotation makes id the selected annotation without opening the
// editor. The selection cannot change while the editor is open.
func (c *Controller) SelectAnnotation(id string) error {
	if c.editorOpen {
		return ErrEditorOpen
	}
	c.selectedID = id
	return nil
}

// ClearSelection drops the selection unless the editor is open.
func (c *Controller) ClearSelection() {
	if !c.editorOpen {
		c.selectedID = ""
	}
}

// SelectedID returns the selected annotation id, or "".
func (c *Controller) SelectedID() string {
	return c.selectedID
}

// Selected looks up the selected annotation. It reports false while
// locked, with no selection, or when the id no longer exists.
func (c *Controller) Selected() (models.Annotation, bool) {
	if !c.gate.Unlocked() || c.selectedID == "" {
		return models.Annotation{}, false
	}
	return c.store.Get(c.selectedID)
}

// SelectNearest selects the annotation closest to the tracked center.
func (c *Controller) SelectNearest() (string, bool) {
	if !c.gate.Unlocked() || c.editorOpen {
		return "", false
	}
	all := c.store.All()
	i := geo.Nearest(c.center, all)
	if i < 0 {
		return "", false
	}
	c.selectedID = all[i].ID
	return c.selectedID, true
}

// SelectNext moves the selection forward in insertion order, wrapping
// around. With no selection it picks the first annotation.
func (c *Controller) SelectNext() (string, bool) {
	return c.step(1)
}

// SelectPrev moves the selection backward in insertion order.
func (c *Controller) SelectPrev() (string, bool) {
	return c.step(-1)
}

func (c *Controller) step(delta int) (string, bool) {
	if !c.gate.Unlocked() || c.editorOpen {
		return "", false
	}
	ids := c.store.IDs()
	if len(ids) == 0 {
		return "", false
	}
	i := c.store.IndexOf(c.selectedID)
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(ids) - 1
	default:
		i = (i + delta + len(ids)) % len(ids)
	}
	c.selectedID = ids[i]
	return c.selectedID, true
}

// Details returns what the place details prompt shows for the selection:
// the title (or "Unknown") and the subtitle (or "Missing place
// information.").
func (c *Controller) Details() (title, message string) {
	a, ok := c.Selected()
	if !ok {
		return UnknownTitle, MissingSubtitle
	}
	title, message = a.Title, a.Subtitle
	if title == "" {
		title = UnknownTitle
	}
	if message == "" {
		message = MissingSubtitle
	}
	return title, message
}

// OpenEditor starts an edit session on the selected annotation.
func (c *Controller) OpenEditor() error {
	switch {
	case !c.gate.Unlocked():
		return ErrLocked
	case c.editorOpen:
		return ErrEditorOpen
	case c.selectedID == "":
		return ErrNoSelection
	}
	if _, ok := c.store.Get(c.selectedID); !ok {
		return fmt.Errorf("open editor on %s: %w", c.selectedID, store.ErrNotFound)
	}
	c.editorOpen = true
	return nil
}

// EditorValues returns the title and subtitle the editor should start
// with, placeholders included.
func (c *Controller) EditorValues() (title, subtitle string, err error) {
	if !c.editorOpen {
		return "", "", ErrEditorClosed
	}
	a, ok := c.Selected()
	if !ok {
		return "", "", fmt.Errorf("editor values for %s: %w", c.selectedID, store.ErrNotFound)
	}
	return a.DisplayTitle(), a.DisplaySubtitle(), nil
}

// CommitEdit writes the edited values to the selected annotation, closes
// the editor and saves the whole collection. It is the only place a
// session persists.
//
// While locked it returns ErrLocked and changes nothing. A selection that
// no longer exists returns an error wrapping store.ErrNotFound; the editor
// is closed and the selection cleared so the session can recover. A failed
// save is not returned: it is logged and available from LastSaveError, and
// the in-memory store stays authoritative.
func (c *Controller) CommitEdit(title, subtitle string) error {
	if !c.gate.Unlocked() {
		return ErrLocked
	}
	if !c.editorOpen {
		return ErrEditorClosed
	}
	if c.selectedID == "" {
		c.editorOpen = false
		return ErrNoSelection
	}

	if err := c.store.Update(c.selectedID, title, subtitle); err != nil {
		c.editorOpen = false
		c.selectedID = ""
		return fmt.Errorf("commit edit: %w", err)
	}
	c.editorOpen = false

	c.save()
	return nil
}

// CancelEditor closes the editor without changing or saving anything.
func (c *Controller) CancelEditor() {
	c.editorOpen = false
}

// LastSaveError returns the error of the most recent save, or nil if it
// succeeded or none has happened.
func (c *Controller) LastSaveError() error {
	return c.lastSaveErr
}

func (c *Controller) save() {
	c.lastSaveErr = c.gateway.Save(c.store.All())
	if c.lastSaveErr != nil {
		slog.Warn("session: save", "err", c.lastSaveErr)
	}
}
