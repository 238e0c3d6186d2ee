package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marcus/places/internal/config"
	"github.com/marcus/places/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage places configuration",
	GroupID: "system",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, err := config.Get(getDataDir(), args[0])
		if err != nil {
			reportConfigError(err)
			return err
		}
		fmt.Println(val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a config value.

Keys:
  home            Map center on start, as lat,lon
  pan_step        Degrees one pan key moves the map (0 < step <= 90)
  unlock_reason   Text shown when asking to unlock`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := config.Set(getDataDir(), key, val); err != nil {
			reportConfigError(err)
			return err
		}
		output.Success("Set %s = %s", key, val)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List config values",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range config.Keys() {
			val, err := config.Get(getDataDir(), key)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			fmt.Printf("%s = %s\n", key, val)
		}
		return nil
	},
}

func reportConfigError(err error) {
	output.Error("%v", err)
	if errors.Is(err, config.ErrUnknownKey) {
		fmt.Println("Valid keys:", strings.Join(config.Keys(), ", "))
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}
