package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLateRegistry(t *testing.T) {
	lab1 := Module{Name: "lab1", Start: date(2024, 1, 1), End: date(2024, 1, 15)}
	lab2 := Module{Name: "lab2", Start: date(2024, 2, 1), End: date(2024, 2, 15)}

	registry := NewLateRegistry([]Module{lab2, lab1, lab2})

	results := registry.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "lab2", results[0].Module.Name)
	assert.Equal(t, "lab1", results[1].Module.Name)
	assert.Empty(t, results[0].Late)

	registry.Add(lab1, Repository{Name: "b", CreatedAt: date(2024, 1, 2), UpdatedAt: date(2024, 1, 16)})
	registry.Add(lab1, Repository{Name: "a", CreatedAt: date(2024, 1, 3), UpdatedAt: date(2024, 1, 15).Add(time.Hour)})

	entry, ok := registry.Get("lab1")
	require.True(t, ok)
	require.Len(t, entry.Late, 2)
	assert.Equal(t, "b", entry.Late[0].Name)
	assert.Equal(t, "a", entry.Late[1].Name)
	assert.Equal(t, 24*time.Hour, entry.Late[0].Overdue())
	assert.Equal(t, time.Hour, entry.Late[1].Overdue())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}
