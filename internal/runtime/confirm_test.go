package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/routinely/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmFixture is a single confirm-mode task: 5s of work, 10s window.
func confirmFixture(t *testing.T) (*Engine, *fakeClock, *recorder) {
	cat := newTestCatalog(t, domain.Task{
		ID: "stretch", Name: "Stretch", Duration: 5,
		Mode: domain.ModeConfirm, ConfirmWindow: 10,
	})
	eng, clock, rec := newTestEngine(cat)
	_, err := eng.Start(context.Background(), "morning", StartOptions{})
	require.NoError(t, err)
	return eng, clock, rec
}

func TestConfirm_WindowOpensOnExpiry(t *testing.T) {
	eng, clock, rec := confirmFixture(t)

	tickAfter(eng, clock, 5*time.Second)

	waiting := rec.ofType(domain.EventTaskAwaitingInput)
	require.Len(t, waiting, 1)
	assert.Equal(t, 10, waiting[0].ConfirmWindow)

	snap := eng.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.InConfirmWindow())
	assert.Equal(t, 10*time.Second, snap.ConfirmRemaining(clock.Now()))
}

func TestConfirm_ManualApproval(t *testing.T) {
	eng, clock, rec := confirmFixture(t)
	ctx := context.Background()

	tickAfter(eng, clock, 5*time.Second)
	clock.Advance(3 * time.Second)
	require.NoError(t, eng.Confirm(ctx))

	completed := rec.ofType(domain.EventTaskCompleted)
	require.Len(t, completed, 1)
	assert.False(t, completed[0].WasAutoAdvanced)
	// Window time counts toward the actual duration.
	assert.Equal(t, 8, completed[0].ActualDuration)
	assert.Len(t, rec.ofType(domain.EventRoutineCompleted), 1)
}

func TestConfirm_ExpiryIsSilentApproval(t *testing.T) {
	eng, clock, rec := confirmFixture(t)

	tickAfter(eng, clock, 5*time.Second)
	tickAfter(eng, clock, 9*time.Second)
	assert.Empty(t, rec.ofType(domain.EventTaskCompleted))

	tickAfter(eng, clock, 1*time.Second)
	completed := rec.ofType(domain.EventTaskCompleted)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].WasAutoAdvanced)
}

func TestSnooze_ExtendsFromCurrentDeadline(t *testing.T) {
	eng, clock, _ := confirmFixture(t)
	ctx := context.Background()

	// Window opens at t+5 and would expire at t+15.
	tickAfter(eng, clock, 5*time.Second)
	clock.Advance(1 * time.Second)
	require.NoError(t, eng.Snooze(ctx, 30))

	// Extension is deadline+30, not now+30: expiry moves to t+45.
	snap := eng.Snapshot()
	assert.Equal(t, 39*time.Second, snap.ConfirmRemaining(clock.Now()))

	tickAfter(eng, clock, 38*time.Second)
	require.NotNil(t, eng.Snapshot(), "still inside the snoozed window")

	tickAfter(eng, clock, 1*time.Second)
	assert.Nil(t, eng.Snapshot())
}

func TestSnooze_DefaultDuration(t *testing.T) {
	eng, clock, _ := confirmFixture(t)
	ctx := context.Background()

	tickAfter(eng, clock, 5*time.Second)
	require.NoError(t, eng.Snooze(ctx, 0))
	assert.Equal(t, time.Duration(10+domain.DefaultSnoozeDuration)*time.Second,
		eng.Snapshot().ConfirmRemaining(clock.Now()))
}

func TestConfirm_Guards(t *testing.T) {
	eng, clock, _ := confirmFixture(t)
	ctx := context.Background()

	t.Run("confirm outside window", func(t *testing.T) {
		assert.ErrorIs(t, eng.Confirm(ctx), domain.ErrNotConfirming)
	})

	t.Run("snooze outside window", func(t *testing.T) {
		assert.ErrorIs(t, eng.Snooze(ctx, 30), domain.ErrNotConfirming)
	})

	tickAfter(eng, clock, 5*time.Second)

	t.Run("adjust during window", func(t *testing.T) {
		assert.True(t, domain.IsValidation(eng.AdjustTime(ctx, 60)))
	})
}

func TestConfirm_WindowSurvivesPause(t *testing.T) {
	eng, clock, rec := confirmFixture(t)
	ctx := context.Background()

	tickAfter(eng, clock, 5*time.Second)
	clock.Advance(2 * time.Second) // 8s of window left
	require.NoError(t, eng.Pause(ctx))

	clock.Advance(10 * time.Minute)
	require.NoError(t, eng.Resume(ctx))
	assert.Equal(t, 8*time.Second, eng.Snapshot().ConfirmRemaining(clock.Now()))

	tickAfter(eng, clock, 8*time.Second)
	completed := rec.ofType(domain.EventTaskCompleted)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].WasAutoAdvanced)
}

func TestConfirm_CompleteTaskClearsWindow(t *testing.T) {
	eng, clock, rec := confirmFixture(t)
	ctx := context.Background()

	tickAfter(eng, clock, 5*time.Second)
	require.NoError(t, eng.CompleteTask(ctx))

	completed := rec.ofType(domain.EventTaskCompleted)
	require.Len(t, completed, 1)
	assert.False(t, completed[0].WasAutoAdvanced)
	assert.Nil(t, eng.Snapshot())
}
