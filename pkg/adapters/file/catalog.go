package file

import (
	"fmt"
	"os"

	"github.com/aretw0/routinely/pkg/adapters/memory"
	"github.com/aretw0/routinely/pkg/domain"
	"gopkg.in/yaml.v3"
)

// catalogDoc is the on-disk YAML shape of a task and routine catalog.
type catalogDoc struct {
	Tasks    []taskDoc    `yaml:"tasks"`
	Routines []routineDoc `yaml:"routines"`
}

type taskDoc struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Duration      int    `yaml:"duration"`
	Icon          string `yaml:"icon"`
	Mode          string `yaml:"mode"`
	ConfirmWindow int    `yaml:"confirm_window"`
	Description   string `yaml:"description"`
}

type routineDoc struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Icon  string   `yaml:"icon"`
	Tasks []string `yaml:"tasks"`
}

// LoadCatalog reads a YAML catalog file into an in-memory catalog. Every
// definition is validated on the way in; IDs are generated for entries
// that omit them.
func LoadCatalog(path string) (*memory.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from raw YAML.
func ParseCatalog(data []byte) (*memory.Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	cat := memory.NewCatalog()
	for _, td := range doc.Tasks {
		task := domain.Task{
			ID:            td.ID,
			Name:          td.Name,
			Duration:      td.Duration,
			Icon:          td.Icon,
			Mode:          domain.AdvancementMode(td.Mode),
			ConfirmWindow: td.ConfirmWindow,
			Description:   td.Description,
		}
		if task.ID == "" {
			task.ID = domain.NewID()
		}
		if task.Mode == "" {
			task.Mode = domain.ModeAuto
		}
		if task.Mode == domain.ModeConfirm && task.ConfirmWindow == 0 {
			task.ConfirmWindow = domain.DefaultConfirmWindow
		}
		if err := cat.PutTask(task); err != nil {
			return nil, fmt.Errorf("task %q: %w", task.ID, err)
		}
	}

	for _, rd := range doc.Routines {
		routine := domain.Routine{
			ID:      rd.ID,
			Name:    rd.Name,
			Icon:    rd.Icon,
			TaskIDs: rd.Tasks,
		}
		if routine.ID == "" {
			routine.ID = domain.NewID()
		}
		for _, tid := range routine.TaskIDs {
			if _, err := cat.GetTask(tid); err != nil {
				return nil, fmt.Errorf("routine %q references unknown task %q", routine.ID, tid)
			}
		}
		if err := cat.PutRoutine(routine); err != nil {
			return nil, fmt.Errorf("routine %q: %w", routine.ID, err)
		}
	}

	return cat, nil
}
