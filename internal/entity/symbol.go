package entity

// SymbolType is the closed set of shapes the gesture recognizer can report.
type SymbolType string

const (
	SymbolLine      SymbolType = "line"
	SymbolStar      SymbolType = "five-point star"
	SymbolArrowhead SymbolType = "arrowhead"
	SymbolAsterisk  SymbolType = "asterisk"
	SymbolX         SymbolType = "X"
)

// DefaultSymbolTypes is the set enabled out of the box. SymbolX is recognized
// by clients but not spawned by default.
var DefaultSymbolTypes = []SymbolType{SymbolLine, SymbolStar, SymbolArrowhead, SymbolAsterisk}

// Symbol is one hostile tentacle. It is keyed to a player color (the color a
// matching gesture must come from) and stalks an assigned target player,
// which is not necessarily the player it is keyed to.
type Symbol struct {
	ID             string     `json:"id"`
	Type           SymbolType `json:"type"`
	Color          string     `json:"color"`
	X              float64    `json:"x"`
	Y              float64    `json:"y"`
	Completed      bool       `json:"completed"`
	TargetPlayerID string     `json:"targetPlayerId,omitempty"`
}
