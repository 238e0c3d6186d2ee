package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marcus/places/internal/config"
	"github.com/marcus/places/internal/crypto"
)

// MinPassphraseLength is the shortest passphrase SetPassphrase accepts.
const MinPassphraseLength = 4

// ErrCancelled is returned by a Prompter when the user backs out.
var ErrCancelled = errors.New("cancelled by user")

// Prompter asks the user for a passphrase.
type Prompter func(ctx context.Context, reason string) (string, error)

// Passphrase is an Authenticator that checks a passphrase against the
// Argon2id verifier stored in the data directory's config. It is the
// terminal stand-in for a device biometric check: without a configured
// passphrase, or without a way to prompt, it reports no capability.
type Passphrase struct {
	dataDir string
	prompt  Prompter
}

// NewPassphrase returns a passphrase authenticator for dataDir.
func NewPassphrase(dataDir string, prompt Prompter) *Passphrase {
	return &Passphrase{dataDir: dataDir, prompt: prompt}
}

// CanAuthenticate reports whether a passphrase is configured and can be asked for.
func (p *Passphrase) CanAuthenticate() bool {
	if p.prompt == nil {
		return false
	}
	_, _, ok, err := config.GetPassphraseVerifier(p.dataDir)
	if err != nil {
		slog.Warn("auth: read passphrase verifier", "err", err)
		return false
	}
	return ok
}

// Authenticate prompts for the passphrase and verifies it.
func (p *Passphrase) Authenticate(ctx context.Context, reason string) error {
	salt, key, ok, err := config.GetPassphraseVerifier(p.dataDir)
	if err != nil {
		return fmt.Errorf("read passphrase verifier: %w", err)
	}
	if !ok || p.prompt == nil {
		return ErrUnavailable
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDenied, err)
	}
	passphrase, err := p.prompt(ctx, reason)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDenied, err)
	}

	match, err := crypto.VerifyPassphrase(passphrase, salt, key)
	if err != nil {
		return fmt.Errorf("verify passphrase: %w", err)
	}
	if !match {
		return fmt.Errorf("%w: passphrase did not match", ErrDenied)
	}
	return nil
}

// SetPassphrase derives and stores a verifier for passphrase, replacing any
// previous one.
func SetPassphrase(dataDir, passphrase string) error {
	if len(strings.TrimSpace(passphrase)) < MinPassphraseLength {
		return fmt.Errorf("passphrase must be at least %d characters", MinPassphraseLength)
	}
	key, salt, err := crypto.DeriveKeyFromPassphrase(passphrase)
	if err != nil {
		return fmt.Errorf("derive passphrase key: %w", err)
	}
	return config.SetPassphraseVerifier(dataDir, salt, key)
}

// StaticPrompt returns a Prompter that always answers passphrase.
func StaticPrompt(passphrase string) Prompter {
	return func(context.Context, string) (string, error) {
		return passphrase, nil
	}
}
