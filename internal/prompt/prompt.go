// Package prompt provides the interactive questions asked while planning a
// cut or copy: an alternate name for a colliding destination and a final
// yes/no confirmation.
//
// Both calls block until answered. "No answer" (empty input, escape, ctrl+c)
// is reported as ok == false rather than as an error.
package prompt

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user questions.
type Prompter interface {
	// Ask requests a free-form answer pre-filled with def.
	Ask(ctx context.Context, question, def string) (answer string, ok bool, err error)

	// Confirm requests a yes/no decision.
	Confirm(ctx context.Context, question string) (yes bool, ok bool, err error)
}

// Terminal prompts on the controlling terminal using huh forms.
type Terminal struct {
	// Accessible renders plain prompts without the TUI, for screen readers and dumb terminals.
	Accessible bool
}

// NewTerminal creates a new Terminal prompter.
func NewTerminal(accessible bool) *Terminal {
	return &Terminal{Accessible: accessible}
}

// Ask requests a free-form answer pre-filled with def.
func (t *Terminal) Ask(ctx context.Context, question, def string) (string, bool, error) {
	answer := def
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(question).
				Value(&answer),
		),
	).WithAccessible(t.Accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	if answer == "" {
		return "", false, nil
	}
	return answer, true, nil
}

// Confirm requests a yes/no decision.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithAccessible(t.Accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, false, nil
		}
		return false, false, err
	}
	return confirmed, true, nil
}
