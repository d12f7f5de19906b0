package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/routinely/pkg/adapters/file"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
tasks:
  - id: brush
    name: Brush teeth
    duration: 120
    icon: "mdi:toothbrush"
  - id: shower
    name: Shower
    duration: 600
    mode: manual
  - id: stretch
    name: Stretch
    duration: 300
    mode: confirm

routines:
  - id: morning
    name: Morning routine
    tasks: [brush, shower, stretch]
`

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0644))

	cat, err := file.LoadCatalog(path)
	require.NoError(t, err)

	t.Run("mode defaults to auto", func(t *testing.T) {
		task, err := cat.GetTask("brush")
		require.NoError(t, err)
		assert.Equal(t, domain.ModeAuto, task.Mode)
		assert.Equal(t, 120, task.Duration)
	})

	t.Run("confirm window defaults", func(t *testing.T) {
		task, err := cat.GetTask("stretch")
		require.NoError(t, err)
		assert.Equal(t, domain.ModeConfirm, task.Mode)
		assert.Equal(t, domain.DefaultConfirmWindow, task.ConfirmWindow)
	})

	t.Run("routine queue preserved", func(t *testing.T) {
		routine, err := cat.GetRoutine("morning")
		require.NoError(t, err)
		assert.Equal(t, []string{"brush", "shower", "stretch"}, routine.TaskIDs)
	})
}

func TestParseCatalog_Errors(t *testing.T) {
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := file.ParseCatalog([]byte("tasks: ["))
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := file.ParseCatalog([]byte(`
tasks:
  - id: t
    name: T
    duration: 0
`))
		assert.Error(t, err)
	})

	t.Run("unknown task reference", func(t *testing.T) {
		_, err := file.ParseCatalog([]byte(`
routines:
  - id: r
    name: R
    tasks: [ghost]
`))
		assert.ErrorContains(t, err, "unknown task")
	})
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := file.LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
