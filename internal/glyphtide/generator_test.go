package glyphtide

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

func roomWithPlayers(t *testing.T, count int) *entity.Room {
	t.Helper()

	newRoom := entity.NewRoom("ROOM01", entity.Settings{
		HealthMode:   entity.HealthShared,
		SharedHearts: 6,
	})

	for i := 0; i < count; i++ {
		_, err := newRoom.AddPlayer(fmt.Sprintf("conn-%d", i))
		require.NoError(t, err)
	}

	return newRoom
}

func TestGenerateSymbols_Count(t *testing.T) {
	for players := 1; players <= 4; players++ {
		t.Run(fmt.Sprintf("%d players", players), func(t *testing.T) {
			// Given: a room with the given roster size
			newRoom := roomWithPlayers(t, players)
			rules := DefaultRules()

			// When: the round batch is generated
			GenerateSymbols(newRoom, rules)

			// Then: exactly players × SymbolsPerPlayer markers exist
			require.Len(t, newRoom.Symbols, players*rules.SymbolsPerPlayer)
		})
	}
}

func TestGenerateSymbols_EvenDistribution(t *testing.T) {
	for players := 1; players <= 4; players++ {
		t.Run(fmt.Sprintf("%d players", players), func(t *testing.T) {
			// Given: a roster and a per-player budget that does not divide evenly
			newRoom := roomWithPlayers(t, players)
			rules := DefaultRules()
			rules.SymbolsPerPlayer = 3

			// When: the round batch is generated
			GenerateSymbols(newRoom, rules)

			// Then: per-color marker counts differ by at most one
			counts := make(map[string]int)
			for _, symbol := range newRoom.Symbols {
				counts[symbol.Color]++
			}

			require.Len(t, counts, players)

			minCount, maxCount := -1, -1
			for _, count := range counts {
				if minCount == -1 || count < minCount {
					minCount = count
				}
				if count > maxCount {
					maxCount = count
				}
			}

			assert.LessOrEqual(t, maxCount-minCount, 1)
		})
	}
}

func TestGenerateSymbols_Properties(t *testing.T) {
	// Given: a full room
	newRoom := roomWithPlayers(t, 4)
	rules := DefaultRules()

	// When: the round batch is generated
	GenerateSymbols(newRoom, rules)

	// Then: every marker spawns on the spawn line, inside the playfield,
	// incomplete, untargeted, with an enabled type and a roster color
	colors := make(map[string]bool)
	for _, player := range newRoom.Players {
		colors[player.Color] = true
	}

	ids := make(map[string]bool)
	for _, symbol := range newRoom.Symbols {
		assert.False(t, symbol.Completed)
		assert.Empty(t, symbol.TargetPlayerID)
		assert.Equal(t, rules.SpawnY, symbol.Y)
		assert.GreaterOrEqual(t, symbol.X, 0.0)
		assert.Less(t, symbol.X, rules.PlayfieldWidth)
		assert.Contains(t, rules.EnabledSymbols, symbol.Type)
		assert.True(t, colors[symbol.Color], "marker color must belong to a player")

		assert.False(t, ids[symbol.ID], "marker ids must be unique")
		ids[symbol.ID] = true
	}
}

func TestGenerateSymbols_IDsStayUniqueAcrossRounds(t *testing.T) {
	// Given: a room that already played a round
	newRoom := roomWithPlayers(t, 2)
	rules := DefaultRules()

	GenerateSymbols(newRoom, rules)
	firstRound := make(map[string]bool)
	for _, symbol := range newRoom.Symbols {
		firstRound[symbol.ID] = true
	}

	// When: the batch is regenerated for the next round
	newRoom.ResetSymbols()
	GenerateSymbols(newRoom, rules)

	// Then: no id from the first round is reused
	for _, symbol := range newRoom.Symbols {
		assert.False(t, firstRound[symbol.ID], "id %s reused across rounds", symbol.ID)
	}
}

func TestGenerateSymbols_SpawnFallback(t *testing.T) {
	// Given: players whose clearance zones cover the whole playfield, so no
	// sample can succeed
	newRoom := roomWithPlayers(t, 4)
	newRoom.Players[0].X = 100
	newRoom.Players[1].X = 300
	newRoom.Players[2].X = 500
	newRoom.Players[3].X = 700

	rules := DefaultRules()
	rules.SpawnClearance = 100
	rules.PlayfieldWidth = 800

	// When: the round batch is generated
	GenerateSymbols(newRoom, rules)

	// Then: generation still produces the full batch; the last sample is
	// accepted even though it violates clearance
	require.Len(t, newRoom.Symbols, 4*rules.SymbolsPerPlayer)
}
