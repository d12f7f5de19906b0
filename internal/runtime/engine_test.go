package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/routinely/pkg/adapters/memory"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects emitted events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Notify(ctx context.Context, ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func (r *recorder) ofType(t domain.EventType) []domain.Event {
	var out []domain.Event
	for _, ev := range r.all() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// stubCatalog bypasses catalog validation so tests can exercise engine
// behavior on inputs the catalog loaders would reject (e.g. zero duration).
type stubCatalog struct {
	tasks    map[string]domain.Task
	routines map[string]domain.Routine
}

func (c *stubCatalog) GetTask(id string) (domain.Task, error) {
	t, ok := c.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t, nil
}

func (c *stubCatalog) GetRoutine(id string) (domain.Routine, error) {
	r, ok := c.routines[id]
	if !ok {
		return domain.Routine{}, domain.ErrRoutineNotFound
	}
	return r, nil
}

func (c *stubCatalog) Tasks() ([]domain.Task, error)       { return nil, nil }
func (c *stubCatalog) Routines() ([]domain.Routine, error) { return nil, nil }

// newTestCatalog builds a memory catalog with the given tasks and a single
// routine "morning" referencing them in order.
func newTestCatalog(t *testing.T, tasks ...domain.Task) *memory.Catalog {
	t.Helper()
	cat := memory.NewCatalog()
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		require.NoError(t, cat.PutTask(task))
		ids = append(ids, task.ID)
	}
	require.NoError(t, cat.PutRoutine(domain.Routine{ID: "morning", Name: "Morning", TaskIDs: ids}))
	return cat
}

func newTestEngine(cat ports.Catalog, opts ...EngineOption) (*Engine, *fakeClock, *recorder) {
	clock := newFakeClock()
	rec := &recorder{}
	opts = append([]EngineOption{WithClock(clock), WithNotifier(rec)}, opts...)
	return NewEngine(cat, opts...), clock, rec
}

// tickAfter advances the clock and delivers a tick, like the driving clock
// waking up after d.
func tickAfter(e *Engine, clock *fakeClock, d time.Duration) {
	clock.Advance(d)
	e.Tick(context.Background(), clock.Now())
}

func TestStart_UnknownRoutine(t *testing.T) {
	eng, _, _ := newTestEngine(memory.NewCatalog())
	_, err := eng.Start(context.Background(), "nope", StartOptions{})
	assert.ErrorIs(t, err, domain.ErrRoutineNotFound)
	assert.False(t, eng.Active())
}

func TestStart_EmptyRoutine(t *testing.T) {
	cat := memory.NewCatalog()
	require.NoError(t, cat.PutRoutine(domain.Routine{ID: "empty", Name: "Empty"}))
	eng, _, rec := newTestEngine(cat)

	_, err := eng.Start(context.Background(), "empty", StartOptions{})
	assert.True(t, domain.IsValidation(err))
	assert.False(t, eng.Active())
	assert.Empty(t, rec.all())
}

func TestAutoRoutine_RunsToCompletion(t *testing.T) {
	cat := newTestCatalog(t,
		domain.Task{ID: "a", Name: "A", Duration: 10, Mode: domain.ModeAuto},
		domain.Task{ID: "b", Name: "B", Duration: 5, Mode: domain.ModeAuto},
		domain.Task{ID: "c", Name: "C", Duration: 8, Mode: domain.ModeAuto},
	)
	history := memory.NewHistory()
	eng, clock, rec := newTestEngine(cat, WithHistoryStore(history))
	ctx := context.Background()

	session, err := eng.Start(ctx, "morning", StartOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRunning, session.Status)
	assert.Equal(t, 0, session.CurrentTaskIndex)

	tickAfter(eng, clock, 10*time.Second)
	tickAfter(eng, clock, 5*time.Second)
	tickAfter(eng, clock, 8*time.Second)

	// N task_started, N task_completed, one routine_completed.
	assert.Len(t, rec.ofType(domain.EventTaskStarted), 3)
	completedEvents := rec.ofType(domain.EventTaskCompleted)
	require.Len(t, completedEvents, 3)
	for _, ev := range completedEvents {
		assert.True(t, ev.WasAutoAdvanced)
	}
	require.Len(t, rec.ofType(domain.EventRoutineCompleted), 1)

	// Session slot released, terminal record archived.
	assert.Nil(t, eng.Snapshot())
	assert.False(t, eng.Active())
	records, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.SessionCompleted, records[0].Status)
	assert.Equal(t, 3, records[0].TasksCompleted)
	assert.Equal(t, 23, records[0].TotalDuration)
}

func TestTick_MissedTicksSettleFromTimestamps(t *testing.T) {
	// One tick long after every deadline still walks the whole queue,
	// because deadlines are absolute, not decremented counters.
	cat := newTestCatalog(t,
		domain.Task{ID: "a", Name: "A", Duration: 10, Mode: domain.ModeAuto},
		domain.Task{ID: "b", Name: "B", Duration: 5, Mode: domain.ModeAuto},
	)
	eng, clock, rec := newTestEngine(cat)
	ctx := context.Background()

	_, err := eng.Start(ctx, "morning", StartOptions{})
	require.NoError(t, err)

	// Sleep through task A entirely. The first wake-up completes A and
	// activates B with a fresh deadline from now.
	tickAfter(eng, clock, time.Hour)
	require.Len(t, rec.ofType(domain.EventTaskCompleted), 1)
	snap := eng.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.CurrentTaskIndex)
	assert.Equal(t, 5*time.Second, snap.TaskRemaining(clock.Now()))

	tickAfter(eng, clock, 5*time.Second)
	assert.Nil(t, eng.Snapshot())
	assert.Len(t, rec.ofType(domain.EventRoutineCompleted), 1)
}

func TestZeroDurationTask_ActivatesThenAdvancesNextTick(t *testing.T) {
	cat := &stubCatalog{
		tasks: map[string]domain.Task{
			"z": {ID: "z", Name: "Z", Duration: 0, Mode: domain.ModeAuto},
			"b": {ID: "b", Name: "B", Duration: 5, Mode: domain.ModeAuto},
		},
		routines: map[string]domain.Routine{
			"r": {ID: "r", Name: "R", TaskIDs: []string{"z", "b"}},
		},
	}
	eng, clock, rec := newTestEngine(cat)
	ctx := context.Background()

	_, err := eng.Start(ctx, "r", StartOptions{})
	require.NoError(t, err)

	// Z activated: task_started fires even for a zero-length task.
	started := rec.ofType(domain.EventTaskStarted)
	require.Len(t, started, 1)
	assert.Equal(t, "z", started[0].TaskID)

	// The very next tick evaluates Z for auto-advance.
	eng.Tick(ctx, clock.Now())
	started = rec.ofType(domain.EventTaskStarted)
	require.Len(t, started, 2)
	assert.Equal(t, "b", started[1].TaskID)
}

func TestTaskEndingSoon_FiresOnce(t *testing.T) {
	cat := newTestCatalog(t, domain.Task{ID: "a", Name: "A", Duration: 60, Mode: domain.ModeAuto})
	eng, clock, rec := newTestEngine(cat)
	ctx := context.Background()

	_, err := eng.Start(ctx, "morning", StartOptions{})
	require.NoError(t, err)

	tickAfter(eng, clock, 40*time.Second)
	assert.Empty(t, rec.ofType(domain.EventTaskEndingSoon))

	tickAfter(eng, clock, 10*time.Second) // remaining 10s, at threshold
	warnings := rec.ofType(domain.EventTaskEndingSoon)
	require.Len(t, warnings, 1)
	assert.Equal(t, 10, warnings[0].TimeRemaining)

	tickAfter(eng, clock, 1*time.Second)
	assert.Len(t, rec.ofType(domain.EventTaskEndingSoon), 1, "warning must not repeat")
}

func TestTick_NoSessionIsHarmless(t *testing.T) {
	eng, clock, rec := newTestEngine(memory.NewCatalog())
	eng.Tick(context.Background(), clock.Now())
	assert.Empty(t, rec.all())
}
