package glyphtide

import "github.com/glyphtide/glyphtide-backend/internal/entity"

// MatchSymbol resolves a recognized gesture against the pending markers of
// the reporting player. The match key is (type, current color): a correct
// shape clears the first incomplete marker of the player's color in list
// order, wherever it was drawn. There is no spatial requirement.
//
// On a match the marker is retired and returned; on no match nothing is
// mutated and nil is returned. Given a fixed marker list order the result
// is deterministic.
func MatchSymbol(room *entity.Room, playerID string, symbolType entity.SymbolType) *entity.Symbol {
	player := room.PlayerByID(playerID)
	if player == nil {
		return nil
	}

	for _, symbol := range room.Symbols {
		if symbol.Completed {
			continue
		}

		if symbol.Type == symbolType && symbol.Color == player.Color {
			room.CompleteSymbol(symbol)

			return symbol
		}
	}

	return nil
}
