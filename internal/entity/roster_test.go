package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_Add(t *testing.T) {
	t.Run("Appends new players in join order", func(t *testing.T) {
		// Given: an empty roster
		roster := Roster{}

		// When: three players join
		roster.Add("p1")
		roster.Add("p2")
		roster.Add("p3")

		// Then: the roster keeps join order
		assert.Equal(t, Roster{"p1", "p2", "p3"}, roster)
	})

	t.Run("Ignores a reconnecting player", func(t *testing.T) {
		// Given: a roster with p1
		roster := Roster{"p1"}

		// When: p1 is added again
		changed := roster.Add("p1")

		// Then: the roster is unchanged
		assert.False(t, changed)
		assert.Equal(t, Roster{"p1"}, roster)
	})
}

func TestRoster_Remove(t *testing.T) {
	t.Run("Removes a player and keeps order", func(t *testing.T) {
		// Given: a roster with three players
		roster := Roster{"p1", "p2", "p3"}

		// When: the middle player leaves
		changed := roster.Remove("p2")

		// Then: order of the remaining players is preserved
		assert.True(t, changed)
		assert.Equal(t, Roster{"p1", "p3"}, roster)
	})

	t.Run("Reports no change for an unknown player", func(t *testing.T) {
		// Given: a roster with one player
		roster := Roster{"p1"}

		// When: removing a player that never joined
		changed := roster.Remove("ghost")

		// Then: nothing changed
		assert.False(t, changed)
		assert.Equal(t, Roster{"p1"}, roster)
	})
}

func TestRoster_NextAfter(t *testing.T) {
	t.Run("Returns empty for an empty roster", func(t *testing.T) {
		// Given: an empty roster
		roster := Roster{}

		// When: asking for the next player
		next := roster.NextAfter("p1")

		// Then: there is none
		assert.Empty(t, next)
	})

	t.Run("Returns the first player when current is unset", func(t *testing.T) {
		// Given: a roster with two players
		roster := Roster{"p1", "p2"}

		// When: no current player is set
		next := roster.NextAfter("")

		// Then: the first joiner takes the turn
		assert.Equal(t, "p1", next)
	})

	t.Run("Returns the first player when current is unknown", func(t *testing.T) {
		// Given: a roster with two players
		roster := Roster{"p1", "p2"}

		// When: the current player is not in the roster
		next := roster.NextAfter("ghost")

		// Then: rotation restarts at the first player
		assert.Equal(t, "p1", next)
	})

	t.Run("Advances to the following player", func(t *testing.T) {
		// Given: a roster with three players
		roster := Roster{"p1", "p2", "p3"}

		// When: p1 holds the turn
		next := roster.NextAfter("p1")

		// Then: p2 is next
		assert.Equal(t, "p2", next)
	})

	t.Run("Wraps from the last player to the first", func(t *testing.T) {
		// Given: a roster with three players
		roster := Roster{"p1", "p2", "p3"}

		// When: the last player holds the turn
		next := roster.NextAfter("p3")

		// Then: rotation wraps to p1
		assert.Equal(t, "p1", next)
	})

	t.Run("Cycles through every player in join order before repeating", func(t *testing.T) {
		// Given: a roster with four players
		roster := Roster{"a", "b", "c", "d"}

		// When: applying NextAfter repeatedly from the first player
		current := roster.NextAfter("")
		var cycle []string
		for range roster {
			cycle = append(cycle, current)
			current = roster.NextAfter(current)
		}

		// Then: every player appeared exactly once, in join order, and
		// the rotation is back at the start
		require.Equal(t, []string{"a", "b", "c", "d"}, cycle)
		assert.Equal(t, "a", current)
	})
}
