// Package editor builds the place editor form: two text fields, title and
// subtitle, that the user can commit or cancel.
package editor

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/places/internal/output"
)

// MaxFieldLength caps what a single field accepts.
const MaxFieldLength = 200

// State holds the editor form and its bound values.
type State struct {
	ID   string
	Form *huh.Form

	// Bound form values
	Title    string
	Subtitle string
}

// New returns an editor for the place id, prefilled with title and
// subtitle.
func New(id, title, subtitle string) *State {
	s := &State{ID: id, Title: title, Subtitle: subtitle}
	s.buildForm()
	return s
}

// buildForm constructs the huh.Form bound to the state's fields
func (s *State) buildForm() {
	s.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&s.Title).
				Placeholder("Name of the place...").
				CharLimit(MaxFieldLength),
			huh.NewInput().
				Title("Subtitle").
				Value(&s.Subtitle).
				Placeholder("What is here...").
				CharLimit(MaxFieldLength),
		).Title("Edit place " + output.ShortID(s.ID)),
	)

	// Configure form appearance
	s.Form.WithTheme(huh.ThemeDracula())
}

// Values returns the edited title and subtitle with surrounding
// whitespace removed.
func (s *State) Values() (title, subtitle string) {
	return strings.TrimSpace(s.Title), strings.TrimSpace(s.Subtitle)
}

// Completed reports whether the user submitted the form.
func (s *State) Completed() bool {
	return s.Form.State == huh.StateCompleted
}

// Aborted reports whether the user backed out of the form.
func (s *State) Aborted() bool {
	return s.Form.State == huh.StateAborted
}
