package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRepository_Lookup(t *testing.T) {
	repo := NewStaticRepository([]Entry{
		{ProductID: "flower-of-life-tee", SyncProductID: 100, Name: "Flower of Life Tee"},
	})

	entry, ok := repo.Lookup("flower-of-life-tee")
	require.True(t, ok)
	assert.Equal(t, int64(100), entry.SyncProductID)

	_, ok = repo.Lookup("unknown")
	assert.False(t, ok)
}

func TestDefaultEntries_UniqueProductIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range DefaultEntries() {
		assert.False(t, seen[e.ProductID], "duplicate product id %s", e.ProductID)
		seen[e.ProductID] = true
		assert.NotZero(t, e.SyncProductID)
	}
}
