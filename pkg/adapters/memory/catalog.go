package memory

import (
	"sort"
	"sync"

	"github.com/aretw0/routinely/pkg/domain"
)

// Catalog implements ports.Catalog in memory. Safe for concurrent use.
// It is the reference catalog for tests and the backing store for the
// file catalog loader.
type Catalog struct {
	mu       sync.RWMutex
	tasks    map[string]domain.Task
	routines map[string]domain.Routine
}

// NewCatalog creates an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tasks:    make(map[string]domain.Task),
		routines: make(map[string]domain.Routine),
	}
}

// PutTask validates and stores a task definition.
func (c *Catalog) PutTask(t domain.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[t.ID] = t
	return nil
}

// PutRoutine validates and stores a routine definition.
func (c *Catalog) PutRoutine(r domain.Routine) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routines[r.ID] = r
	return nil
}

// DeleteTask removes a task and strips it from every routine's queue.
// In-flight sessions are unaffected: they run on snapshots.
func (c *Catalog) DeleteTask(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tasks, id)
	for rid, r := range c.routines {
		kept := r.TaskIDs[:0:0]
		for _, tid := range r.TaskIDs {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		r.TaskIDs = kept
		c.routines[rid] = r
	}
}

// DeleteRoutine removes a routine definition.
func (c *Catalog) DeleteRoutine(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.routines, id)
}

// GetTask implements ports.Catalog.
func (c *Catalog) GetTask(id string) (domain.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

// GetRoutine implements ports.Catalog.
func (c *Catalog) GetRoutine(id string) (domain.Routine, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.routines[id]
	if !ok {
		return domain.Routine{}, domain.ErrRoutineNotFound
	}
	// Copy the queue so callers cannot mutate the stored definition.
	out := r
	out.TaskIDs = append([]string(nil), r.TaskIDs...)
	return out, nil
}

// Tasks implements ports.Catalog, sorted by ID for stable listings.
func (c *Catalog) Tasks() ([]domain.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Routines implements ports.Catalog, sorted by ID for stable listings.
func (c *Catalog) Routines() ([]domain.Routine, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Routine, 0, len(c.routines))
	for _, r := range c.routines {
		rr := r
		rr.TaskIDs = append([]string(nil), r.TaskIDs...)
		out = append(out, rr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
