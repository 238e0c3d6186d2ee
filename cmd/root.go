package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/marcus/places/internal/output"
	"github.com/marcus/places/internal/suggest"
	"github.com/marcus/places/internal/workdir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvLogLevel overrides the default log level when --log-level is not given.
const EnvLogLevel = "PLACES_LOG_LEVEL"

var (
	version string
	dataDir string

	dirFlag      string
	logLevelFlag string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "places",
	Short: "Private map notebook for the terminal",
	Long: `places - A private map notebook for the terminal.

Drop pins on a map, give them a title and a note, and keep them in a single
file in your data directory. Everything stays locked until you unlock it.

Run without a command to open the map.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(logLevelFlag); err != nil {
			output.Error("%v", err)
			return err
		}
		dataDir = workdir.ResolveDataDir(dirFlag)
		slog.Debug("data dir", "path", dataDir)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMap(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getDataDir returns the resolved data directory
func getDataDir() string {
	return dataDir
}

// parseLogLevel maps a level name to a slog level. Empty means warn.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", s)
	}
}

// setupLogging installs a text handler on stderr at the requested level.
func setupLogging(flagLevel string) error {
	name := flagLevel
	if name == "" {
		name = os.Getenv(EnvLogLevel)
	}
	level, err := parseLogLevel(name)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// flagError prints did-you-mean hints for unknown flags.
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	name, ok := strings.CutPrefix(msg, "unknown flag: ")
	if !ok {
		name, ok = strings.CutPrefix(msg, "unknown shorthand flag: ")
	}
	fields := strings.Fields(name)
	if !ok || len(fields) == 0 {
		return err
	}
	name = fields[0]

	output.Error("%v", err)
	if hint := suggest.GetFlagHint(name); hint != "" {
		fmt.Printf("Hint: %s\n", hint)
		return err
	}
	var valid []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		valid = append(valid, "--"+f.Name)
	})
	if matches := suggest.Flag(name, valid); len(matches) > 0 {
		fmt.Printf("Did you mean: %s\n", strings.Join(matches, ", "))
	}
	return err
}

// nameWithAliases returns "name, alias1, alias2" if aliases exist, else just "name"
func nameWithAliases(cmd *cobra.Command) string {
	if len(cmd.Aliases) > 0 {
		return cmd.Name() + ", " + strings.Join(cmd.Aliases, ", ")
	}
	return cmd.Name()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "data directory (default $"+workdir.EnvHome+" or ~/.places)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error (default $"+EnvLogLevel+" or warn)")
	rootCmd.SetFlagErrorFunc(flagError)

	// Add custom template function for showing aliases
	cobra.AddTemplateFunc("nameWithAliases", nameWithAliases)

	// Custom usage template that shows aliases inline
	usageTemplate := `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

Additional Commands:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

	// Need to add the 'add' function for padding calculation
	cobra.AddTemplateFunc("add", func(a, b int) int { return a + b })

	rootCmd.SetUsageTemplate(usageTemplate)

	// Define command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Place Commands:"},
		&cobra.Group{ID: "query", Title: "Query Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	// Assign built-in commands to system group
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}
