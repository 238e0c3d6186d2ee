package cmd

import (
	"fmt"
	"log/slog"

	"github.com/marcus/places/internal/output"
	"github.com/marcus/places/internal/session"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <place-id>",
	Aliases: []string{"view", "get"},
	Short:   "Display the details of a place",
	Long: `Display the details of a place: its title, coordinate and notes. The
subtitle is rendered as markdown.

Examples:
  places show 0f8fad5b            # Rendered details
  places show 0f8fad5b --plain    # No markdown rendering
  places show 0f8fad5b --json     # Machine-readable output`,
	GroupID: "query",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		nb, err := openUnlocked(cmd.Context(), getDataDir())
		if err != nil {
			return err
		}

		a, err := resolvePlace(nb.ctrl, args[0])
		if err != nil {
			if jsonOut {
				output.JSONError(output.ErrCodeNotFound, err.Error())
			} else {
				output.Error("%v", err)
			}
			return err
		}

		if jsonOut {
			title, message := detailsOf(nb.ctrl, a.ID)
			return output.JSON(struct {
				Place   any    `json:"place"`
				Title   string `json:"details_title"`
				Message string `json:"details_message"`
			}{a, title, message})
		}

		if plain {
			fmt.Print(output.FormatAnnotationLong(a))
			return nil
		}

		rendered, err := output.RenderMarkdown(output.AnnotationMarkdown(a))
		if err != nil {
			slog.Debug("show: render markdown", "err", err)
			fmt.Print(output.FormatAnnotationLong(a))
			return nil
		}
		fmt.Println(rendered)
		fmt.Println(output.IndentString("id "+a.ID, 2))
		return nil
	},
}

// detailsOf returns what the place details prompt shows for id.
func detailsOf(ctrl *session.Controller, id string) (title, message string) {
	if err := ctrl.SelectAnnotation(id); err != nil {
		return session.UnknownTitle, session.MissingSubtitle
	}
	return ctrl.Details()
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("json", false, "Output as JSON")
	showCmd.Flags().Bool("plain", false, "Plain text instead of rendered markdown")
}
