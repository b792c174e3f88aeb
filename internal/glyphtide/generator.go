package glyphtide

import (
	"math"
	"math/rand"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

// GenerateSymbols builds the marker batch for the current round:
// players × SymbolsPerPlayer markers, distributed as evenly as possible
// across player colors (the first total%n players get one extra). Targets
// are left unset; assignment is a separate concern.
func GenerateSymbols(room *entity.Room, rules Rules) {
	total := len(room.Players) * rules.SymbolsPerPlayer
	if len(room.Players) == 0 {
		return
	}

	perPlayer := total / len(room.Players)
	extra := total % len(room.Players)

	for playerIndex, player := range room.Players {
		count := perPlayer
		if playerIndex < extra {
			count++
		}

		for i := 0; i < count; i++ {
			symbolType := rules.EnabledSymbols[rand.Intn(len(rules.EnabledSymbols))]
			x, y := spawnPosition(room, rules)

			room.Symbols = append(room.Symbols, &entity.Symbol{
				ID:    room.NextSymbolID(),
				Type:  symbolType,
				Color: player.Color,
				X:     x,
				Y:     y,
			})
		}
	}

	shuffleSymbols(room.Symbols)
}

// spawnPosition rejection-samples a spot on the spawn line that keeps the
// configured x-axis clearance from every player. After SpawnAttempts misses
// the last sample is accepted anyway: a crowded playfield is not an error.
func spawnPosition(room *entity.Room, rules Rules) (float64, float64) {
	var x float64

	for attempt := 0; attempt < rules.SpawnAttempts; attempt++ {
		x = rand.Float64() * rules.PlayfieldWidth

		clear := true
		for _, player := range room.Players {
			if math.Abs(x-player.X) < rules.SpawnClearance {
				clear = false
				break
			}
		}

		if clear {
			break
		}
	}

	return x, rules.SpawnY
}

// shuffleSymbols breaks up the per-color grouping the generation loop
// produces, so markers of one color are not spatially clustered in the list.
func shuffleSymbols(symbols []*entity.Symbol) {
	for i := len(symbols) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		symbols[i], symbols[j] = symbols[j], symbols[i]
	}
}
