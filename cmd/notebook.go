package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/places/internal/auth"
	"github.com/marcus/places/internal/config"
	"github.com/marcus/places/internal/models"
	"github.com/marcus/places/internal/output"
	"github.com/marcus/places/internal/session"
	"github.com/marcus/places/internal/storage"
	"github.com/marcus/places/internal/store"
	"github.com/marcus/places/internal/suggest"
	"golang.org/x/term"
)

// EnvPassphrase supplies the unlock passphrase for non-interactive runs.
const EnvPassphrase = "PLACES_PASSPHRASE"

var errAmbiguousID = errors.New("ambiguous place id")

// notebook bundles what a place command works on: the auth gate, the
// session controller and the loaded store behind it.
type notebook struct {
	dir         string
	reason      string
	auth        *auth.Session
	ctrl        *session.Controller
	loadWarning error
}

// openNotebook loads the saved places of dir behind a locked session.
// The map center starts at the configured home, if any.
func openNotebook(dir string, prompt auth.Prompter) *notebook {
	reason, err := config.GetUnlockReason(dir)
	if err != nil {
		slog.Warn("config: unlock reason", "err", err)
	}

	sess := auth.NewSession(auth.NewPassphrase(dir, prompt), reason)
	ctrl := session.New(sess, store.New(), storage.NewFile(dir))
	nb := &notebook{dir: dir, reason: reason, auth: sess, ctrl: ctrl}
	nb.loadWarning = ctrl.Load()

	home, ok, err := config.GetHome(dir)
	if err != nil {
		slog.Warn("config: home", "err", err)
	}
	if ok {
		ctrl.SetCenter(home)
	}
	return nb
}

// openUnlocked opens the notebook and unlocks it with the CLI prompter.
// Failures are printed before they are returned.
func openUnlocked(ctx context.Context, dir string) (*notebook, error) {
	nb := openNotebook(dir, cliPrompter())
	if err := nb.auth.Unlock(ctx); err != nil {
		output.Error("unlock: %v", err)
		if errors.Is(err, auth.ErrUnavailable) {
			output.Info("Set a passphrase first: places unlock setup")
			output.Info("Non-interactive runs read it from $%s", EnvPassphrase)
		}
		return nil, err
	}
	if nb.loadWarning != nil {
		output.Warning("saved places unreadable, starting empty: %v", nb.loadWarning)
	}
	return nb, nil
}

// cliPrompter picks how the CLI asks for the passphrase: the environment
// first, then an interactive prompt when attached to a terminal. With
// neither, unlocking is unavailable.
func cliPrompter() auth.Prompter {
	if v, ok := os.LookupEnv(EnvPassphrase); ok {
		return auth.StaticPrompt(v)
	}
	if isInteractive() {
		return promptPassphrase
	}
	return nil
}

// isInteractive reports whether stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// promptPassphrase asks for the passphrase with a masked huh input.
func promptPassphrase(ctx context.Context, reason string) (string, error) {
	var pass string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Unlock places").
			Description(reason).
			EchoMode(huh.EchoModePassword).
			Value(&pass),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", auth.ErrCancelled
		}
		return "", err
	}
	return pass, nil
}

// resolvePlace finds a place by full id or unique id prefix. Unknown ids
// come back with did-you-mean suggestions in the error.
func resolvePlace(ctrl *session.Controller, ref string) (models.Annotation, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Annotation{}, fmt.Errorf("place id required")
	}

	annotations := ctrl.Annotations()
	var matches []models.Annotation
	ids := make([]string, 0, len(annotations))
	for _, a := range annotations {
		if a.ID == ref {
			return a, nil
		}
		if strings.HasPrefix(a.ID, ref) {
			matches = append(matches, a)
		}
		ids = append(ids, a.ID)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		err := fmt.Errorf("place %s: %w", ref, store.ErrNotFound)
		if near := suggest.ID(ref, ids); len(near) > 0 {
			short := make([]string, len(near))
			for i, id := range near {
				short[i] = output.ShortID(id)
			}
			err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(short, ", "))
		}
		return models.Annotation{}, err
	default:
		return models.Annotation{}, fmt.Errorf("%w %q matches %d places", errAmbiguousID, ref, len(matches))
	}
}

// commitAndReport commits the open edit and turns a failed save into an
// error, since a CLI run ends right after.
func commitAndReport(ctrl *session.Controller, title, subtitle string) error {
	if err := ctrl.CommitEdit(title, subtitle); err != nil {
		return err
	}
	if err := ctrl.LastSaveError(); err != nil {
		return fmt.Errorf("save places: %w", err)
	}
	return nil
}
