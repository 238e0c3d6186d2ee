package cmd

import (
	"fmt"
	"os"

	"github.com/marcus/places/internal/editor"
	"github.com/marcus/places/internal/input"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/output"
	"github.com/marcus/places/internal/session"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"drop", "pin"},
	Short:   "Drop a pin at a coordinate",
	Long: `Drop a pin at the given coordinate and save it.

Without --title or --subtitle on a terminal, the place editor opens.
Otherwise missing values keep the "Title" and "Subtitle" placeholders.
Either flag accepts - to read stdin or @file to read a file.

Examples:
  places add --lat 51.5 --lon -0.13 --title London --subtitle "Capital of UK"
  places add --lat 48.8606 --lon 2.3376     # Opens the editor
  places add --lat 40.78 --lon -73.97 -t "Central Park" -s @notes.md`,
	GroupID: "core",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		c := models.Coordinate{Latitude: lat, Longitude: lon}
		if !c.Valid() {
			err := fmt.Errorf("coordinate out of range: %s", c)
			output.Error("%v", err)
			return err
		}

		nb, err := openUnlocked(cmd.Context(), getDataDir())
		if err != nil {
			return err
		}

		values, err := editValuesFromFlags(cmd)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		a, err := addPlace(nb.ctrl, c, values, isInteractive())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Added %s", output.AnnotationOneLinerPlain(a))
		return nil
	},
}

// editValues are title and subtitle given on the command line. nil means
// the flag was not set.
type editValues struct {
	title    *string
	subtitle *string
}

// editValuesFromFlags reads --title and --subtitle. Either may be given
// as - (stdin) or @file.
func editValuesFromFlags(cmd *cobra.Command) (editValues, error) {
	var values editValues
	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"title", &values.title},
		{"subtitle", &values.subtitle},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		raw, _ := cmd.Flags().GetString(f.name)
		v, err := input.ExpandValue(raw, os.Stdin)
		if err != nil {
			return editValues{}, fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.dst = &v
	}
	return values, nil
}

func (v editValues) empty() bool {
	return v.title == nil && v.subtitle == nil
}

// apply fills unset values from the editor's starting values.
func (v editValues) apply(title, subtitle string) (string, string) {
	if v.title != nil {
		title = *v.title
	}
	if v.subtitle != nil {
		subtitle = *v.subtitle
	}
	return title, subtitle
}

// addPlace drops a pin at c the way the map does, then commits the edit.
func addPlace(ctrl *session.Controller, c models.Coordinate, values editValues, interactive bool) (models.Annotation, error) {
	ctrl.SetCenter(c)
	id, ok := ctrl.DropPinAtCenter()
	if !ok {
		return models.Annotation{}, session.ErrLocked
	}
	if err := finishEdit(ctrl, values, interactive); err != nil {
		return models.Annotation{}, err
	}
	a, _ := ctrl.Selected()
	if a.ID != id {
		return models.Annotation{}, fmt.Errorf("add place: lost selection of %s", id)
	}
	return a, nil
}

// finishEdit completes the open edit: from flags, from the interactive
// form when no flags were given, or with the starting values unchanged.
// Cancelling the form leaves the place as it was and saves nothing.
func finishEdit(ctrl *session.Controller, values editValues, interactive bool) error {
	title, subtitle, err := ctrl.EditorValues()
	if err != nil {
		ctrl.CancelEditor()
		return err
	}

	if values.empty() && interactive {
		form := editor.New(ctrl.SelectedID(), title, subtitle)
		if err := form.Form.Run(); err != nil {
			ctrl.CancelEditor()
			return fmt.Errorf("edit cancelled: %w", err)
		}
		title, subtitle = form.Values()
	} else {
		title, subtitle = values.apply(title, subtitle)
	}

	return commitAndReport(ctrl, title, subtitle)
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Float64("lat", 0, "Latitude in degrees (-90..90)")
	addCmd.Flags().Float64("lon", 0, "Longitude in degrees (-180..180)")
	addCmd.Flags().StringP("title", "t", "", "Place title")
	addCmd.Flags().StringP("subtitle", "s", "", "Place subtitle / notes")
	_ = addCmd.MarkFlagRequired("lat")
	_ = addCmd.MarkFlagRequired("lon")
}
