/*
Package domain contains the core domain models for the Routinely engine.

It defines the fundamental entities of the execution model: Tasks and
Routines (immutable catalog entries), the Session (the single mutable
execution record), per-slot TaskStates, and the lifecycle Events emitted
while a session runs. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Task: A timed unit of work with an advancement mode (auto, manual, confirm).
  - Routine: An ordered sequence of task references.
  - Session: The runtime snapshot of one routine execution (status, queue, deadlines).
  - TaskState: The execution record for one slot in the session's queue.
  - Event: A semantic lifecycle notification (routine_started, task_completed, ...).
*/
package domain
