package cmd

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/places/internal/config"
	"github.com/marcus/places/internal/output"
	"github.com/marcus/places/internal/tui/mapview"
	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Open the interactive map",
	Long: `Open the interactive map. The map stays behind a lock screen until you
enter your passphrase (or $PLACES_PASSPHRASE is set).

Key bindings:
  ←↑↓→ / hjkl    Pan the map
  = / -          Zoom in / out
  + / a          Drop a pin at the center and edit it
  Tab / n, p     Select next / previous pin
  s              Select the pin nearest the center
  c              Center on the selected pin
  Enter          Place details (Enter: OK, e: Edit)
  /              Search places
  Esc            Clear selection
  ?              Toggle help
  q              Quit`,
	GroupID: "core",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMap(cmd)
	},
}

func runMap(cmd *cobra.Command) error {
	dir := getDataDir()

	buf := &mapview.PassphraseBuffer{}
	nb := openNotebook(dir, buf.Prompt)

	pass, autoUnlock := os.LookupEnv(EnvPassphrase)
	if autoUnlock {
		buf.Set(pass)
	}

	step, err := config.GetPanStep(dir)
	if err != nil {
		slog.Warn("config: pan step", "err", err)
	}

	model := mapview.NewModel(mapview.Options{
		Auth:         nb.auth,
		Controller:   nb.ctrl,
		Passphrase:   buf,
		UnlockReason: nb.reason,
		PanStep:      step,
		AutoUnlock:   autoUnlock,
		LoadWarning:  nb.loadWarning,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running map: %w", err)
	}

	if err := nb.ctrl.LastSaveError(); err != nil {
		output.Warning("last save failed: %v", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(mapCmd)
}
