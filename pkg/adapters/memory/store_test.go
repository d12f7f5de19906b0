package memory_test

import (
	"testing"

	"github.com/aretw0/routinely/pkg/adapters/memory"
	"github.com/aretw0/routinely/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.SessionStoreContract(t, memory.NewStore())
}

func TestMemoryHistory_Contract(t *testing.T) {
	tests.HistoryStoreContract(t, memory.NewHistory())
}
