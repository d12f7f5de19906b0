package memory_test

import (
	"testing"

	"github.com/aretw0/routinely/pkg/adapters/memory"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_TaskLifecycle(t *testing.T) {
	cat := memory.NewCatalog()

	task := domain.Task{ID: "brush", Name: "Brush teeth", Duration: 120, Mode: domain.ModeAuto}
	require.NoError(t, cat.PutTask(task))

	got, err := cat.GetTask("brush")
	require.NoError(t, err)
	assert.Equal(t, "Brush teeth", got.Name)

	_, err = cat.GetTask("missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCatalog_RejectsInvalidTask(t *testing.T) {
	cat := memory.NewCatalog()

	t.Run("zero duration", func(t *testing.T) {
		err := cat.PutTask(domain.Task{ID: "t", Name: "T", Duration: 0, Mode: domain.ModeAuto})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("confirm without window", func(t *testing.T) {
		err := cat.PutTask(domain.Task{ID: "t", Name: "T", Duration: 60, Mode: domain.ModeConfirm})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown mode", func(t *testing.T) {
		err := cat.PutTask(domain.Task{ID: "t", Name: "T", Duration: 60, Mode: "sometimes"})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestCatalog_DeleteTaskStripsRoutines(t *testing.T) {
	cat := memory.NewCatalog()
	require.NoError(t, cat.PutTask(domain.Task{ID: "a", Name: "A", Duration: 60, Mode: domain.ModeAuto}))
	require.NoError(t, cat.PutTask(domain.Task{ID: "b", Name: "B", Duration: 60, Mode: domain.ModeAuto}))
	require.NoError(t, cat.PutRoutine(domain.Routine{ID: "r", Name: "R", TaskIDs: []string{"a", "b", "a"}}))

	cat.DeleteTask("a")

	r, err := cat.GetRoutine("r")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, r.TaskIDs)
}
