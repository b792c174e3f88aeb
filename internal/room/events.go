package room

import "github.com/glyphtide/glyphtide-backend/internal/entity"

type EventType string

const (
	EventRoomCreated    EventType = "roomCreated"
	EventRoomJoined     EventType = "roomJoined"
	EventPlayerJoined   EventType = "playerJoined"
	EventPlayerLeft     EventType = "playerLeft"
	EventGameStarted    EventType = "gameStarted"
	EventRoundCompleted EventType = "roundCompleted"
	EventSymbolMatched  EventType = "symbolMatched"
	EventTentacleUpdate EventType = "tentacleUpdate"
	EventPlayerUpdate   EventType = "playerUpdate"
	EventGameLost       EventType = "gameLost"
	EventGameWon        EventType = "gameWon"
)

// Event is one outbound message emitted by a room actor. The gateway drains
// the room's event channel and fans each event out: to a single connection
// when TargetID is set, to every room member except ExceptID otherwise.
//
// Room always carries a full snapshot projection; consumers replace their
// local copy wholesale.
type Event struct {
	Type     EventType
	TargetID string
	ExceptID string
	PlayerID string
	Player   *entity.Player
	Symbol   *entity.Symbol
	Room     *entity.Room
}

// Info is the registry's lobby-listing projection of a room.
type Info struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	State       string `json:"gameState"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}
