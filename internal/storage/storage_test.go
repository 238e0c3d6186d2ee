package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/marcus/places/internal/models"
)

func sampleAnnotations() []models.Annotation {
	return []models.Annotation{
		{ID: "a1", Title: "London", Subtitle: "Capital of UK", Latitude: 51.5, Longitude: -0.13},
		{ID: "a2", Title: "", Subtitle: "", Latitude: -33.8688, Longitude: 151.2093},
		{ID: "a3", Title: "Café \"Zürich\"", Subtitle: "line\nbreak", Latitude: 47.3769, Longitude: 8.5417},
	}
}

func TestFileLoad_MissingFileIsEmpty(t *testing.T) {
	gw := NewFile(t.TempDir())

	got, err := gw.Load()
	if err != nil {
		t.Fatalf("Load on missing file returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Load = %#v, want empty non-nil collection", got)
	}
}

func TestFileSaveLoad_RoundTrip(t *testing.T) {
	gw := NewFile(filepath.Join(t.TempDir(), "nested"))
	want := sampleAnnotations()

	if err := gw.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := gw.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got  %#v\n want %#v", got, want)
	}
}

func TestFileSave_EmptyCollection(t *testing.T) {
	gw := NewFile(t.TempDir())
	if err := gw.Save(nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}

	data, err := os.ReadFile(gw.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("file = %q, want []", data)
	}
}

func TestFileSave_FileModeAndNoTempLeftovers(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	gw := NewFile(dir)
	if err := gw.Save(sampleAnnotations()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(gw.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != fileMode {
		t.Errorf("mode = %o, want %o", mode, fileMode)
	}

	tmps, _ := filepath.Glob(filepath.Join(dir, FileName+"-*.tmp"))
	if len(tmps) != 0 {
		t.Errorf("temp files left behind: %v", tmps)
	}
}

func TestFileLoad_CorruptFileIsWarning(t *testing.T) {
	dir := t.TempDir()
	gw := NewFile(dir)
	if err := os.WriteFile(gw.Path(), []byte(`[{"id": "a1", "latitude": `), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := gw.Load()
	if err == nil {
		t.Fatal("expected warning for corrupt file")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error = %T, want *ReadError", err)
	}
	if readErr.Path != gw.Path() {
		t.Errorf("ReadError.Path = %q, want %q", readErr.Path, gw.Path())
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Load = %#v, want empty collection", got)
	}
}

func TestFileLoad_LegacyRecordsWithoutIDs(t *testing.T) {
	dir := t.TempDir()
	gw := NewFile(dir)
	legacy := `[{"title":"Home","latitude":1.5,"longitude":2.5},{"latitude":3,"longitude":4}]`
	if err := os.WriteFile(gw.Path(), []byte(legacy), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := gw.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "Home" || got[0].Latitude != 1.5 || got[0].Longitude != 2.5 {
		t.Errorf("first record = %#v", got[0])
	}
	if got[1].DisplayTitle() != models.PlaceholderTitle {
		t.Errorf("second title = %q, want placeholder", got[1].DisplayTitle())
	}
}

func TestFileSave_WriteErrorKeepsOldContent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	gw := NewFile(dir)
	if err := gw.Save(sampleAnnotations()[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(dir, 0700)

	err := gw.Save(sampleAnnotations())
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Save error = %v, want *WriteError", err)
	}

	got, err := gw.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("old content not preserved: %#v", got)
	}
}

func TestFileSave_ReadersNeverSeePartialFile(t *testing.T) {
	dir := t.TempDir()
	gw := NewFile(dir)
	small := sampleAnnotations()[:1]
	large := make([]models.Annotation, 0, 500)
	for i := 0; i < 500; i++ {
		large = append(large, models.Annotation{ID: "big", Title: "x", Latitude: float64(i) / 10})
	}
	if err := gw.Save(small); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if i%2 == 0 {
				gw.Save(large)
			} else {
				gw.Save(small)
			}
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		got, err := gw.Load()
		if err != nil {
			t.Fatalf("reader observed a partial file: %v", err)
		}
		if len(got) != len(small) && len(got) != len(large) {
			t.Fatalf("reader observed %d records", len(got))
		}
	}
}

func TestMemory_SaveLoadIsolated(t *testing.T) {
	mem := NewMemory()
	in := sampleAnnotations()
	if err := mem.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in[0].Title = "mutated after save"

	got, err := mem.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[0].Title != "London" {
		t.Errorf("memory gateway aliased caller slice: %q", got[0].Title)
	}
	if mem.Saves() != 1 {
		t.Errorf("Saves = %d, want 1", mem.Saves())
	}
}

func TestMemory_Errors(t *testing.T) {
	mem := NewMemory(sampleAnnotations()...)
	mem.SaveErr = errors.New("disk full")

	err := mem.Save(nil)
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Save error = %v, want *WriteError", err)
	}
	if len(mem.Snapshot()) != 3 {
		t.Error("failed save changed stored content")
	}

	mem.LoadErr = errors.New("corrupt")
	got, err := mem.Load()
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Load error = %v, want *ReadError", err)
	}
	if len(got) != 0 {
		t.Errorf("Load with error returned %d records", len(got))
	}
}
