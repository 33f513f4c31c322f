package workflow

import "context"

// TransitionEvent describes one completed status change, published so
// connected clients can refresh their board views.
type TransitionEvent struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Action string `json:"action"`
}

// Notifier receives transition events after the store commit. Best effort;
// the engine ignores delivery failures.
type Notifier interface {
	NotifyTransition(event TransitionEvent)
}

// NopNotifier drops every event. Used by tests and the seeder.
type NopNotifier struct{}

func (NopNotifier) NotifyTransition(TransitionEvent) {}

// Confirmer asks the user to approve a consequential action before the
// engine proceeds. A false answer aborts with ErrCancelled.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// AutoConfirmer accepts every prompt. The HTTP layer uses it because the
// confirmation dialog already happened client-side.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(context.Context, string) bool { return true }

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }
