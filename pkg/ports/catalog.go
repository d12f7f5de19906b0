package ports

import "github.com/aretw0/routinely/pkg/domain"

// Catalog is the read-only lookup of task and routine definitions.
// The engine resolves a routine into a task queue at session start and
// re-reads individual tasks at activation time; it never writes back.
type Catalog interface {
	// GetTask returns domain.ErrTaskNotFound when the ID is unknown.
	GetTask(id string) (domain.Task, error)

	// GetRoutine returns domain.ErrRoutineNotFound when the ID is unknown.
	GetRoutine(id string) (domain.Routine, error)

	// Tasks lists all task definitions.
	Tasks() ([]domain.Task, error)

	// Routines lists all routine definitions.
	Routines() ([]domain.Routine, error)
}

// RoutineTasks resolves a routine's queue against the catalog. Task IDs
// missing from the catalog are dropped from the queue (they are treated as
// removed from the routine definition, not as a hard failure).
func RoutineTasks(c Catalog, r domain.Routine) []domain.Task {
	tasks := make([]domain.Task, 0, len(r.TaskIDs))
	for _, id := range r.TaskIDs {
		task, err := c.GetTask(id)
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// RoutineDuration sums the durations of a routine's resolvable tasks,
// in seconds.
func RoutineDuration(c Catalog, r domain.Routine) int {
	total := 0
	for _, t := range RoutineTasks(c, r) {
		total += t.Duration
	}
	return total
}
