package cmd

import (
	"github.com/marcus/places/internal/output"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:     "edit <place-id>",
	Aliases: []string{"update"},
	Short:   "Edit a place's title and subtitle",
	Long: `Edit the title and subtitle of a saved place. The id may be shortened to
any unique prefix.

Without --title or --subtitle on a terminal, the place editor opens. Flags
that are not given keep their current value. A blank value falls back to
the "Title" / "Subtitle" placeholder.

Examples:
  places edit 0f8fad5b --title "British Museum"
  places edit 0f8fad5b               # Opens the editor`,
	GroupID: "core",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := openUnlocked(cmd.Context(), getDataDir())
		if err != nil {
			return err
		}

		a, err := resolvePlace(nb.ctrl, args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		values, err := editValuesFromFlags(cmd)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if err := editPlace(nb, a.ID, values, isInteractive()); err != nil {
			output.Error("%v", err)
			return err
		}
		updated, _ := nb.ctrl.Selected()
		output.Success("Updated %s", output.AnnotationOneLinerPlain(updated))
		return nil
	},
}

// editPlace selects id, opens the editor on it and finishes the edit.
func editPlace(nb *notebook, id string, values editValues, interactive bool) error {
	if err := nb.ctrl.SelectAnnotation(id); err != nil {
		return err
	}
	if err := nb.ctrl.OpenEditor(); err != nil {
		return err
	}
	return finishEdit(nb.ctrl, values, interactive)
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("subtitle", "s", "", "New subtitle / notes")
}
