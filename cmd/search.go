package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcus/places/internal/output"
	"github.com/marcus/places/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"find"},
	Short:   "Fuzzy search places by title, subtitle or id",
	Long: `Fuzzy search places by title, subtitle or id, best match first.

Examples:
  places search london
  places search "brit mus" --json`,
	GroupID: "query",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := outputMode(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		query := strings.Join(args, " ")

		nb, err := openUnlocked(cmd.Context(), getDataDir())
		if err != nil {
			return err
		}

		matches := search.Filter(query, nb.ctrl.Annotations())
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}

		if mode == output.ModeJSON {
			return output.JSON(matches)
		}
		if len(matches) == 0 {
			fmt.Printf("No places match %q\n", query)
			return nil
		}
		places := listPlaces(matches, nil, 0)
		printPlaces(os.Stdout, places, mode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	searchCmd.Flags().BoolP("long", "l", false, "Show notes and full ids")
	searchCmd.Flags().IntP("limit", "n", 0, "Show at most n matches")
}
