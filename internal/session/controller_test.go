package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/marcus/places/internal/auth"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/storage"
	"github.com/marcus/places/internal/store"
)

type gate struct{ open bool }

func (g *gate) Unlocked() bool { return g.open }

var london = models.Coordinate{Latitude: 51.5, Longitude: -0.13}

func newController(t *testing.T, unlocked bool, saved ...models.Annotation) (*Controller, *gate, *storage.Memory) {
	t.Helper()
	g := &gate{open: unlocked}
	mem := storage.NewMemory(saved...)
	c := New(g, store.New(), mem)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c, g, mem
}

func TestNewController_InitialState(t *testing.T) {
	c, _, _ := newController(t, true)
	if got := c.State(); got != (State{}) {
		t.Errorf("initial state = %+v, want zero", got)
	}
}

func TestSetCenter_LatestWins(t *testing.T) {
	c, _, _ := newController(t, true)
	c.SetCenter(models.Coordinate{Latitude: 1, Longitude: 1})
	c.SetCenter(models.Coordinate{Latitude: 2, Longitude: 2})
	c.SetCenter(london)
	if c.Center() != london {
		t.Errorf("center = %v, want %v", c.Center(), london)
	}
}

func TestLondonScenario(t *testing.T) {
	c, _, mem := newController(t, true)
	c.SetCenter(london)

	id, ok := c.DropPinAtCenter()
	if !ok {
		t.Fatal("DropPinAtCenter refused while unlocked")
	}
	st := c.State()
	if st.SelectedID != id || !st.EditorOpen {
		t.Fatalf("state after drop = %+v, want selected %s with editor open", st, id)
	}
	if mem.Saves() != 0 {
		t.Errorf("drop saved %d times, want 0", mem.Saves())
	}

	title, subtitle, err := c.EditorValues()
	if err != nil {
		t.Fatalf("EditorValues: %v", err)
	}
	if title != models.PlaceholderTitle || subtitle != models.PlaceholderSubtitle {
		t.Errorf("editor values = %q/%q, want placeholders", title, subtitle)
	}

	if err := c.CommitEdit("London", "Capital of UK"); err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
	if c.EditorOpen() {
		t.Error("editor still open after commit")
	}
	if mem.Saves() != 1 {
		t.Fatalf("saves = %d, want 1", mem.Saves())
	}
	want := []models.Annotation{{ID: id, Title: "London", Subtitle: "Capital of UK", Latitude: 51.5, Longitude: -0.13}}
	if got := mem.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted = %#v, want %#v", got, want)
	}
	if got := c.Annotations(); !reflect.DeepEqual(got, want) {
		t.Errorf("annotations = %#v, want %#v", got, want)
	}
}

func TestLocked_NothingChanges(t *testing.T) {
	saved := models.Annotation{ID: "a", Title: "Home", Latitude: 1, Longitude: 2}
	c, _, mem := newController(t, false, saved)
	c.SetCenter(london)

	if _, ok := c.DropPinAtCenter(); ok {
		t.Error("DropPinAtCenter succeeded while locked")
	}
	if got := c.Annotations(); len(got) != 0 {
		t.Errorf("Annotations while locked = %v, want none", got)
	}
	if err := c.OpenEditor(); !errors.Is(err, ErrLocked) {
		t.Errorf("OpenEditor = %v, want ErrLocked", err)
	}
	if err := c.CommitEdit("x", "y"); !errors.Is(err, ErrLocked) {
		t.Errorf("CommitEdit = %v, want ErrLocked", err)
	}
	if _, ok := c.SelectNearest(); ok {
		t.Error("SelectNearest succeeded while locked")
	}
	if mem.Saves() != 0 {
		t.Errorf("saves = %d, want 0", mem.Saves())
	}
}

func TestUnlockRevealsLoadedAnnotations(t *testing.T) {
	saved := models.Annotation{ID: "a", Title: "Home", Latitude: 1, Longitude: 2}
	c, g, _ := newController(t, false, saved)
	if len(c.Annotations()) != 0 {
		t.Fatal("annotations visible while locked")
	}
	g.open = true
	if got := c.Annotations(); !reflect.DeepEqual(got, []models.Annotation{saved}) {
		t.Errorf("annotations = %v, want %v", got, saved)
	}
}

func TestCancelEditor_DoesNotSave(t *testing.T) {
	c, _, mem := newController(t, true)
	id, _ := c.DropPinAtCenter()
	c.CancelEditor()

	if c.EditorOpen() {
		t.Error("editor open after cancel")
	}
	if mem.Saves() != 0 {
		t.Errorf("saves = %d, want 0", mem.Saves())
	}
	a, ok := c.Selected()
	if !ok || a.ID != id || a.Title != models.PlaceholderTitle {
		t.Errorf("selected = %+v/%v, want placeholder pin %s", a, ok, id)
	}
}

func TestEditorIsModal(t *testing.T) {
	c, _, _ := newController(t, true, models.Annotation{ID: "other"})
	id, _ := c.DropPinAtCenter()

	if _, ok := c.DropPinAtCenter(); ok {
		t.Error("second drop accepted while editor open")
	}
	if err := c.SelectAnnotation("other"); !errors.Is(err, ErrEditorOpen) {
		t.Errorf("SelectAnnotation = %v, want ErrEditorOpen", err)
	}
	if err := c.OpenEditor(); !errors.Is(err, ErrEditorOpen) {
		t.Errorf("OpenEditor = %v, want ErrEditorOpen", err)
	}
	if _, ok := c.SelectNext(); ok {
		t.Error("SelectNext accepted while editor open")
	}
	c.ClearSelection()
	if c.SelectedID() != id {
		t.Errorf("selection = %q, want %q", c.SelectedID(), id)
	}
}

func TestCommitEdit_EditorClosed(t *testing.T) {
	c, _, mem := newController(t, true, models.Annotation{ID: "a"})
	_ = c.SelectAnnotation("a")
	if err := c.CommitEdit("x", "y"); !errors.Is(err, ErrEditorClosed) {
		t.Errorf("CommitEdit = %v, want ErrEditorClosed", err)
	}
	if mem.Saves() != 0 {
		t.Errorf("saves = %d, want 0", mem.Saves())
	}
}

func TestCommitEdit_StaleSelection(t *testing.T) {
	c, _, mem := newController(t, true, models.Annotation{ID: "a"})
	_ = c.SelectAnnotation("a")
	if err := c.OpenEditor(); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	// Reload from an empty gateway so the selected id disappears.
	if err := mem.Save(nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}

	err := c.CommitEdit("x", "y")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("CommitEdit = %v, want ErrNotFound", err)
	}
	if st := c.State(); st.EditorOpen || st.SelectedID != "" {
		t.Errorf("state after stale commit = %+v, want closed editor and no selection", st)
	}
	if mem.Saves() != 1 {
		t.Errorf("saves = %d, want only the reset save", mem.Saves())
	}
}

func TestCommitEdit_SaveFailureKeepsMemory(t *testing.T) {
	c, _, mem := newController(t, true)
	mem.SaveErr = errors.New("disk full")

	id, _ := c.DropPinAtCenter()
	if err := c.CommitEdit("Cafe", "Good coffee"); err != nil {
		t.Fatalf("CommitEdit = %v, want nil on save failure", err)
	}
	if err := c.LastSaveError(); err == nil {
		t.Error("LastSaveError = nil, want disk full")
	}
	a, _ := c.Selected()
	if a.ID != id || a.Title != "Cafe" {
		t.Errorf("in-memory annotation = %+v, want edited", a)
	}

	mem.SaveErr = nil
	_ = c.SelectAnnotation(id)
	_ = c.OpenEditor()
	if err := c.CommitEdit("Cafe", "Better coffee"); err != nil {
		t.Fatal(err)
	}
	if c.LastSaveError() != nil {
		t.Errorf("LastSaveError = %v after successful save", c.LastSaveError())
	}
}

func TestDetails(t *testing.T) {
	c, _, _ := newController(t, true,
		models.Annotation{ID: "full", Title: "Louvre", Subtitle: "Museum"},
		models.Annotation{ID: "bare"},
	)

	tests := []struct {
		id, title, message string
	}{
		{"full", "Louvre", "Museum"},
		{"bare", UnknownTitle, MissingSubtitle},
		{"", UnknownTitle, MissingSubtitle},
	}
	for _, tt := range tests {
		_ = c.SelectAnnotation(tt.id)
		title, message := c.Details()
		if title != tt.title || message != tt.message {
			t.Errorf("Details(%q) = %q/%q, want %q/%q", tt.id, title, message, tt.title, tt.message)
		}
	}
}

func TestOpenEditor_NoSelection(t *testing.T) {
	c, _, _ := newController(t, true)
	if err := c.OpenEditor(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("OpenEditor = %v, want ErrNoSelection", err)
	}
	_ = c.SelectAnnotation("gone")
	if err := c.OpenEditor(); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("OpenEditor = %v, want ErrNotFound", err)
	}
}

func TestSelectNearest(t *testing.T) {
	c, _, _ := newController(t, true,
		models.Annotation{ID: "paris", Latitude: 48.86, Longitude: 2.35},
		models.Annotation{ID: "london", Latitude: 51.5, Longitude: -0.13},
	)
	c.SetCenter(models.Coordinate{Latitude: 51, Longitude: 0})
	id, ok := c.SelectNearest()
	if !ok || id != "london" {
		t.Errorf("SelectNearest = %q/%v, want london", id, ok)
	}
}

func TestSelectNextPrev_Wraps(t *testing.T) {
	c, _, _ := newController(t, true,
		models.Annotation{ID: "a"},
		models.Annotation{ID: "b"},
		models.Annotation{ID: "c"},
	)

	var got []string
	for range 4 {
		id, _ := c.SelectNext()
		got = append(got, id)
	}
	if want := []string{"a", "b", "c", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("next sequence = %v, want %v", got, want)
	}

	c.ClearSelection()
	if id, _ := c.SelectPrev(); id != "c" {
		t.Errorf("SelectPrev from none = %q, want c", id)
	}
	if id, _ := c.SelectPrev(); id != "b" {
		t.Errorf("SelectPrev = %q, want b", id)
	}
}

func TestLoad_WarningLeavesEmptyStore(t *testing.T) {
	g := &gate{open: true}
	mem := storage.NewMemory(models.Annotation{ID: "a"})
	mem.LoadErr = errors.New("corrupt")
	c := New(g, store.New(), mem)

	if err := c.Load(); err == nil {
		t.Fatal("Load = nil, want warning")
	}
	if got := c.Annotations(); len(got) != 0 {
		t.Errorf("annotations = %v, want empty", got)
	}
	if _, ok := c.DropPinAtCenter(); !ok {
		t.Error("session unusable after load warning")
	}
}

func TestLoad_PersistsAssignedIDs(t *testing.T) {
	mem := storage.NewMemory(
		models.Annotation{Title: "Home", Latitude: 1.5, Longitude: 2.5},
		models.Annotation{ID: "b", Title: "Work"},
	)
	first := New(&gate{open: true}, store.New(), mem)
	if err := first.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mem.Saves() != 1 {
		t.Fatalf("saves after assigning ids = %d, want 1", mem.Saves())
	}
	id := first.Annotations()[0].ID
	if id == "" {
		t.Fatal("loaded record has no id")
	}

	second := New(&gate{open: true}, store.New(), mem)
	if err := second.Load(); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	_ = second.SelectAnnotation(id)
	if a, ok := second.Selected(); !ok || a.Title != "Home" {
		t.Errorf("id %s from first load not found on second", id)
	}
	if mem.Saves() != 1 {
		t.Errorf("saves = %d, want no write when every record has an id", mem.Saves())
	}
}

func TestLoad_AssignedIDsSaveFailureIsLogged(t *testing.T) {
	mem := storage.NewMemory(models.Annotation{Title: "Home"})
	mem.SaveErr = errors.New("read-only")
	c := New(&gate{open: true}, store.New(), mem)
	if err := c.Load(); err != nil {
		t.Fatalf("Load = %v, want nil when only the write-back fails", err)
	}
	if c.LastSaveError() == nil {
		t.Error("LastSaveError = nil, want write-back failure")
	}
	if len(c.Annotations()) != 1 {
		t.Error("store should keep the loaded record")
	}
}

type passAuth struct{}

func (passAuth) CanAuthenticate() bool { return true }
func (passAuth) Authenticate(context.Context, string) error { return nil }

func TestWithAuthSessionAndFile(t *testing.T) {
	dir := t.TempDir()
	gw := storage.NewFile(dir)
	sess := auth.NewSession(passAuth{}, "test")
	c := New(sess, store.New(), gw)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := c.DropPinAtCenter(); ok {
		t.Fatal("drop accepted before unlock")
	}
	if err := sess.Unlock(context.Background()); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	c.SetCenter(london)
	id, _ := c.DropPinAtCenter()
	if err := c.CommitEdit("London", "Capital of UK"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := storage.NewFile(dir).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := []models.Annotation{{ID: id, Title: "London", Subtitle: "Capital of UK", Latitude: 51.5, Longitude: -0.13}}
	if !reflect.DeepEqual(reloaded, want) {
		t.Errorf("reloaded = %#v, want %#v", reloaded, want)
	}
}
