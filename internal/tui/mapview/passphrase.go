package mapview

import (
	"context"
	"sync"

	"github.com/marcus/places/internal/auth"
)

// PassphraseBuffer hands what the user typed on the lock screen to an
// auth.Passphrase authenticator. The lock screen fills it before starting
// a check; the check takes the value exactly once.
type PassphraseBuffer struct {
	mu    sync.Mutex
	value string
	set   bool
}

// Set stores the next passphrase to hand out.
func (b *PassphraseBuffer) Set(v string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value, b.set = v, true
}

// Prompt is an auth.Prompter. It returns auth.ErrCancelled when nothing
// was entered.
func (b *PassphraseBuffer) Prompt(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return "", auth.ErrCancelled
	}
	v := b.value
	b.value, b.set = "", false
	return v, nil
}
