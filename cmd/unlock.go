package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/marcus/places/internal/auth"
	"github.com/marcus/places/internal/config"
	"github.com/marcus/places/internal/output"
	"github.com/spf13/cobra"
)

var errPassphraseMismatch = errors.New("passphrases do not match")

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Check or set up the unlock passphrase",
	Long: `Check the unlock passphrase. Every command that reads or changes places
asks for it first; non-interactive runs read it from $PLACES_PASSPHRASE.`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := openUnlocked(cmd.Context(), getDataDir())
		if err != nil {
			return err
		}
		output.Success("Unlocked (%d places)", len(nb.ctrl.Annotations()))
		return nil
	},
}

var unlockSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set or change the unlock passphrase",
	Long: `Set the unlock passphrase. Changing an existing passphrase asks for the
current one first.

On a terminal the new passphrase is asked for twice. Otherwise it is read
from $PLACES_PASSPHRASE.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getDataDir()

		if _, _, ok, err := config.GetPassphraseVerifier(dir); err != nil {
			output.Error("%v", err)
			return err
		} else if ok {
			current := auth.NewSession(auth.NewPassphrase(dir, cliPrompter()), "Enter the current passphrase.")
			if err := current.Unlock(cmd.Context()); err != nil {
				output.Error("current passphrase: %v", err)
				return err
			}
		}

		pass, err := newPassphrase()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := auth.SetPassphrase(dir, pass); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Passphrase set")
		return nil
	},
}

var unlockResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the unlock passphrase",
	Long: `Remove the unlock passphrase after checking it. Saved places are kept,
but nothing can unlock them until a new passphrase is set with
places unlock setup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := resetPassphrase(cmd.Context(), getDataDir(), cliPrompter()); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Passphrase removed")
		output.Info("Set a new one with: places unlock setup")
		return nil
	},
}

// resetPassphrase clears the stored verifier once prompt has produced the
// current passphrase.
func resetPassphrase(ctx context.Context, dir string, prompt auth.Prompter) error {
	current := auth.NewSession(auth.NewPassphrase(dir, prompt), "Enter the current passphrase.")
	if err := current.Unlock(ctx); err != nil {
		return fmt.Errorf("current passphrase: %w", err)
	}
	return config.ClearPassphraseVerifier(dir)
}

var unlockStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether unlocking is possible",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getDataDir()
		_, _, configured, err := config.GetPassphraseVerifier(dir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		_, fromEnv := os.LookupEnv(EnvPassphrase)

		fmt.Printf("Data dir:    %s\n", dir)
		fmt.Printf("Passphrase:  %s\n", yesNo(configured, "set", "not set"))
		fmt.Printf("Env (%s): %s\n", EnvPassphrase, yesNo(fromEnv, "present", "absent"))

		gate := auth.NewPassphrase(dir, cliPrompter())
		if gate.CanAuthenticate() {
			fmt.Println("Unlock:      available")
		} else {
			fmt.Printf("Unlock:      unavailable (%s)\n", auth.NoBiometricsMessage)
		}
		return nil
	},
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// newPassphrase reads the new passphrase: twice from a masked form on a
// terminal, else from the environment.
func newPassphrase() (string, error) {
	if !isInteractive() {
		v, ok := os.LookupEnv(EnvPassphrase)
		if !ok {
			return "", fmt.Errorf("no terminal: set $%s to the new passphrase", EnvPassphrase)
		}
		return v, nil
	}

	var pass, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New passphrase").
			EchoMode(huh.EchoModePassword).
			Value(&pass).
			Validate(validatePassphrase),
		huh.NewInput().
			Title("Repeat passphrase").
			EchoMode(huh.EchoModePassword).
			Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("passphrase setup cancelled: %w", err)
	}
	if pass != confirm {
		return "", errPassphraseMismatch
	}
	return pass, nil
}

func validatePassphrase(s string) error {
	if len([]rune(s)) < auth.MinPassphraseLength {
		return fmt.Errorf("at least %d characters", auth.MinPassphraseLength)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(unlockCmd)
	unlockCmd.AddCommand(unlockSetupCmd)
	unlockCmd.AddCommand(unlockResetCmd)
	unlockCmd.AddCommand(unlockStatusCmd)
}
