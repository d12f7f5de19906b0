package ports

import (
	"context"

	"github.com/aretw0/routinely/pkg/domain"
)

// Notifier receives lifecycle events from the engine. Delivery is
// fire-and-forget: the engine emits after the state transition has
// committed, and implementations must not block. There is no error
// return; a notifier that fails should log and move on.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event domain.Event)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, event domain.Event) {
	f(ctx, event)
}
