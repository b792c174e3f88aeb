package glyphtide

import (
	"math"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

// CollisionOutcome summarizes one tick's worth of collision processing.
type CollisionOutcome struct {
	Hit  bool // at least one marker reached a player this tick
	Lost bool // the health pool ran out; room state is already StateLost
}

// ResolveCollisions retires every incomplete marker that reached a player
// and applies the damage to the room's health pool. Collision distance is
// measured on the x axis only: tentacles rise from the ocean floor, so only
// horizontal proximity matters.
//
// A marker scores at most one hit and is then retired, no matter how many
// players stand inside its collision range. When the pool is exhausted the
// room flips to StateLost and the whole roster is marked dead.
func ResolveCollisions(room *entity.Room, rules Rules) CollisionOutcome {
	var outcome CollisionOutcome

	for _, symbol := range room.Symbols {
		if symbol.Completed {
			continue
		}

		victim := collidingPlayer(room, symbol, rules)
		if victim == nil {
			continue
		}

		room.CompleteSymbol(symbol)
		outcome.Hit = true

		switch room.HealthMode {
		case entity.HealthPerPlayer:
			if victim.Hearts > 0 {
				victim.Hearts--
			}
			if victim.Hearts == 0 {
				victim.Alive = false
			}
			if len(room.AlivePlayers()) == 0 {
				outcome.Lost = true
			}
		default:
			if room.SharedHearts > 0 {
				room.SharedHearts--
			}
			if room.SharedHearts == 0 {
				outcome.Lost = true
			}
		}

		if outcome.Lost {
			break
		}
	}

	if outcome.Lost {
		for _, player := range room.Players {
			player.Alive = false
		}
		room.State = entity.StateLost

		return outcome
	}

	if outcome.Hit {
		ReassignStaleTargets(room)
	}

	return outcome
}

func collidingPlayer(room *entity.Room, symbol *entity.Symbol, rules Rules) *entity.Player {
	for _, player := range room.Players {
		if !player.Alive {
			continue
		}

		if math.Abs(symbol.X-player.X) < rules.CollisionDistance {
			return player
		}
	}

	return nil
}
