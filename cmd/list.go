package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/marcus/places/internal/config"
	"github.com/marcus/places/internal/geo"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/output"
	"github.com/spf13/cobra"
)

// placeJSON is the JSON shape of a listed place.
type placeJSON struct {
	models.Annotation
	DistanceMeters *float64 `json:"distance_m,omitempty"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved places",
	Long: `List saved places in the order they were added.

Examples:
  places list                    # All places
  places list --near 51.5,-0.13  # Closest first, with distances
  places list --long             # Notes and full ids
  places list --json             # Machine-readable output`,
	GroupID: "query",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := outputMode(cmd)
		nearStr, _ := cmd.Flags().GetString("near")
		limit, _ := cmd.Flags().GetInt("limit")

		var near *models.Coordinate
		if nearStr != "" {
			c, err := config.ParseCoordinate(nearStr)
			if err != nil {
				output.Error("invalid --near: %v", err)
				return err
			}
			near = &c
		}

		nb, err := openUnlocked(cmd.Context(), getDataDir())
		if err != nil {
			return err
		}

		places := listPlaces(nb.ctrl.Annotations(), near, limit)
		if mode == output.ModeJSON {
			return output.JSON(places)
		}
		printPlaces(os.Stdout, places, mode)
		return nil
	},
}

// listPlaces orders annotations for listing. With near set they are sorted
// by distance from it and carry the distance. limit <= 0 means no limit.
func listPlaces(annotations []models.Annotation, near *models.Coordinate, limit int) []placeJSON {
	places := make([]placeJSON, len(annotations))
	for i, a := range annotations {
		places[i] = placeJSON{Annotation: a}
		if near != nil {
			d := geo.Distance(*near, a.Coordinate())
			places[i].DistanceMeters = &d
		}
	}
	if near != nil {
		slices.SortStableFunc(places, func(a, b placeJSON) int {
			switch {
			case *a.DistanceMeters < *b.DistanceMeters:
				return -1
			case *a.DistanceMeters > *b.DistanceMeters:
				return 1
			}
			return 0
		})
	}
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}
	return places
}

// outputMode reads the --json and --long flags. JSON wins when both are set.
func outputMode(cmd *cobra.Command) output.OutputMode {
	if v, _ := cmd.Flags().GetBool("json"); v {
		return output.ModeJSON
	}
	if v, _ := cmd.Flags().GetBool("long"); v {
		return output.ModeLong
	}
	return output.ModeShort
}

func printPlaces(w io.Writer, places []placeJSON, mode output.OutputMode) {
	if len(places) == 0 {
		fmt.Fprintln(w, "No places saved yet. Add one with: places add --lat <lat> --lon <lon>")
		return
	}
	if mode == output.ModeLong {
		fmt.Fprint(w, output.SectionHeader(fmt.Sprintf("%d places", len(places))))
	}
	for _, p := range places {
		if mode == output.ModeLong {
			fmt.Fprintln(w)
			long := strings.TrimRight(output.FormatAnnotationLong(p.Annotation), "\n")
			fmt.Fprintln(w, output.IndentString(long, 2))
			if p.DistanceMeters != nil {
				fmt.Fprintf(w, "  Distance: %s\n", output.FormatDistance(*p.DistanceMeters))
			}
			continue
		}
		line := output.FormatAnnotationShort(p.Annotation)
		if p.DistanceMeters != nil {
			line += "  " + output.FormatDistance(*p.DistanceMeters)
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().BoolP("long", "l", false, "Show notes and full ids")
	listCmd.Flags().String("near", "", "Sort by distance from lat,lon")
	listCmd.Flags().IntP("limit", "n", 0, "Show at most n places")
}
