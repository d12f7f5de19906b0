/*
Package ports defines the interfaces between the Routinely engine and the
outside world, following Hexagonal Architecture principles.

The engine consumes a read-only Catalog (task and routine definitions),
emits fire-and-forget Events to a Notifier, and persists its single active
Session through a SessionStore so a process restart can rehydrate it.
Adapters for these ports live under pkg/adapters.
*/
package ports
