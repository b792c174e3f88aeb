package glyphtide

import (
	"math"
	"math/rand"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

// AssignTargets binds every incomplete, unassigned marker to a uniformly
// random alive player. Called once after generation and opportunistically
// whenever the roster changes.
func AssignTargets(room *entity.Room) {
	alive := room.AlivePlayers()
	if len(alive) == 0 {
		return
	}

	for _, symbol := range room.Symbols {
		if symbol.Completed || symbol.TargetPlayerID != "" {
			continue
		}

		symbol.TargetPlayerID = alive[rand.Intn(len(alive))].ID
	}
}

// ReassignStaleTargets rebinds incomplete markers whose target is dead or
// gone to a random currently-alive player.
func ReassignStaleTargets(room *entity.Room) {
	alive := room.AlivePlayers()
	if len(alive) == 0 {
		return
	}

	for _, symbol := range room.Symbols {
		if symbol.Completed || symbol.TargetPlayerID == "" {
			continue
		}

		target := room.PlayerByID(symbol.TargetPlayerID)
		if target == nil || !target.Alive {
			symbol.TargetPlayerID = alive[rand.Intn(len(alive))].ID
		}
	}
}

// AdvanceTentacles moves every incomplete marker one tick toward its target
// along the x axis, clamping the step so a marker never overshoots. Markers
// whose target died are rebound on the spot; with nobody left alive they
// freeze where they are. Reports whether any marker actually moved, so
// quiescent ticks produce no broadcast.
func AdvanceTentacles(room *entity.Room, rules Rules) bool {
	moved := false

	for _, symbol := range room.Symbols {
		if symbol.Completed {
			continue
		}

		target := room.PlayerByID(symbol.TargetPlayerID)
		if target == nil || !target.Alive {
			alive := room.AlivePlayers()
			if len(alive) == 0 {
				continue
			}

			target = alive[rand.Intn(len(alive))]
			symbol.TargetPlayerID = target.ID
		}

		dx := target.X - symbol.X
		step := math.Min(rules.TentacleSpeed, math.Abs(dx))
		if step == 0 {
			continue
		}

		if dx > 0 {
			symbol.X += step
		} else {
			symbol.X -= step
		}

		moved = true
	}

	return moved
}
