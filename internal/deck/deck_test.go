package deck_test

import (
	"fmt"
	"testing"

	"daydreams-server/internal/deck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() deck.Catalog {
	return deck.Catalog{
		"park":  {"A", "B", "C", "D"},
		"snack": {"x", "y", "z"},
	}
}

func TestSize(t *testing.T) {
	b := deck.NewBuilder(testCatalog())

	t.Run("Product of option list lengths", func(t *testing.T) {
		size, err := b.Size([]string{"park", "snack"})
		require.NoError(t, err)
		assert.Equal(t, 12, size)
	})

	t.Run("Single category", func(t *testing.T) {
		size, err := b.Size([]string{"snack"})
		require.NoError(t, err)
		assert.Equal(t, 3, size)
	})

	t.Run("Empty enabled set is rejected", func(t *testing.T) {
		_, err := b.Size(nil)
		assert.ErrorIs(t, err, deck.ErrNoCategoriesEnabled)
	})

	t.Run("Unknown category is rejected", func(t *testing.T) {
		_, err := b.Size([]string{"park", "castle"})
		assert.ErrorIs(t, err, deck.ErrUnknownCategory)
	})
}

// Сценарий из требований: park(4) x ride(24) = 96 уникальных комбинаций.
func TestSizeParkRideScenario(t *testing.T) {
	b := deck.NewBuilder(deck.DefaultCatalog())
	size, err := b.Size([]string{deck.CategoryPark, deck.CategoryRide})
	require.NoError(t, err)
	assert.Equal(t, 96, size)
}

func TestCombination(t *testing.T) {
	b := deck.NewBuilder(testCatalog())
	enabled := []string{"park", "snack"}

	t.Run("Every index decodes to a unique combination", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 12; i++ {
			sel, err := b.Combination(enabled, i)
			require.NoError(t, err)
			assert.Len(t, sel, 2)
			key := sel["park"] + "/" + sel["snack"]
			assert.False(t, seen[key], "combination %s repeated", key)
			seen[key] = true
		}
		assert.Len(t, seen, 12)
	})

	t.Run("Out of range index", func(t *testing.T) {
		_, err := b.Combination(enabled, 12)
		assert.Error(t, err)
		_, err = b.Combination(enabled, -1)
		assert.Error(t, err)
	})
}

func TestDraw(t *testing.T) {
	b := deck.NewBuilder(testCatalog())
	enabled := []string{"park", "snack"}
	reseed := func() int64 { return 42 }

	comboKey := func(t *testing.T, state *deck.State) string {
		t.Helper()
		sel, err := b.Draw(state, enabled, reseed)
		require.NoError(t, err)
		return sel["park"] + "/" + sel["snack"]
	}

	t.Run("Every combination appears exactly once before any repeat", func(t *testing.T) {
		state, err := b.NewState(enabled, 7)
		require.NoError(t, err)

		seen := make(map[string]bool)
		for i := 0; i < 12; i++ {
			key := comboKey(t, state)
			assert.False(t, seen[key], "combination %s repeated within one cycle", key)
			seen[key] = true
		}
		assert.Len(t, seen, 12)
		assert.Equal(t, 12, state.Cursor)

		// 13-я выдача - уже следующий цикл после перетасовки
		key := comboKey(t, state)
		assert.True(t, seen[key])
		assert.Equal(t, 1, state.Cursor)
	})

	t.Run("Exhaustion reshuffles and resets the cursor", func(t *testing.T) {
		state := &deck.State{Signature: b.Signature(enabled), Seed: 7, Cursor: 12}
		sel, err := b.Draw(state, enabled, reseed)
		require.NoError(t, err)
		assert.NotNil(t, sel)
		assert.Equal(t, int64(42), state.Seed)
		assert.Equal(t, 1, state.Cursor)
	})

	t.Run("Changed category set rebuilds the deck", func(t *testing.T) {
		state := &deck.State{Signature: "park", Seed: 7, Cursor: 3}
		sel, err := b.Draw(state, enabled, reseed)
		require.NoError(t, err)
		assert.Len(t, sel, 2)
		assert.Equal(t, b.Signature(enabled), state.Signature)
		assert.Equal(t, 1, state.Cursor)
	})

	t.Run("Deterministic for a fixed seed", func(t *testing.T) {
		s1 := &deck.State{Signature: b.Signature(enabled), Seed: 99, Cursor: 0}
		s2 := &deck.State{Signature: b.Signature(enabled), Seed: 99, Cursor: 0}
		for i := 0; i < 5; i++ {
			sel1, err := b.Draw(s1, enabled, reseed)
			require.NoError(t, err)
			sel2, err := b.Draw(s2, enabled, reseed)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprint(sel1), fmt.Sprint(sel2))
		}
	})
}
