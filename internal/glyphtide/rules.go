// Package glyphtide holds the authoritative game rules: symbol batch
// generation, tentacle targeting and motion, collision scoring and the
// gesture-to-symbol resolver. Everything here is pure state manipulation on
// entity.Room; scheduling and broadcasting live in the room package.
package glyphtide

import "github.com/glyphtide/glyphtide-backend/internal/entity"

// Rules are the tuning knobs of a room, fixed at room construction.
type Rules struct {
	SymbolsPerPlayer  int
	EnabledSymbols    []entity.SymbolType
	PlayfieldWidth    float64
	SpawnY            float64
	SpawnClearance    float64
	SpawnAttempts     int
	TentacleSpeed     float64
	CollisionDistance float64
	MinConfidence     float64
}

// DefaultRules is the stock game tuning: tentacles rise from the ocean floor
// at y=700 and crawl along the x axis at one unit per tick.
func DefaultRules() Rules {
	return Rules{
		SymbolsPerPlayer:  3,
		EnabledSymbols:    entity.DefaultSymbolTypes,
		PlayfieldWidth:    800,
		SpawnY:            700,
		SpawnClearance:    100,
		SpawnAttempts:     10,
		TentacleSpeed:     1,
		CollisionDistance: 30,
		MinConfidence:     0,
	}
}
