/*
Package routinely executes timed routines: ordered queues of tasks where
each task runs on its own timer and advances automatically, waits for
manual input, or asks for confirmation inside a bounded window.

The top-level Engine wraps the state machine and the one-second clock that
drives it. A minimal embedding looks like:

	cat := memory.NewCatalog()
	// ... define tasks and routines ...

	eng := routinely.New(cat,
		routinely.WithSessionStore(file.NewStore("")),
	)
	if err := eng.Run(ctx); err != nil {
		return err
	}
	defer eng.Stop()

	session, err := eng.Start(ctx, "morning", routinely.StartOptions{})

At most one session is active at a time. All remaining-time bookkeeping is
derived from absolute deadlines, so missed ticks and process restarts are
settled on the next tick rather than drifting.

Subpackages provide the pluggable edges: pkg/adapters/* for catalogs and
stores (memory, file, redis), pkg/notify and pkg/observability for event
sinks, and pkg/runner for the driving clock.
*/
package routinely
