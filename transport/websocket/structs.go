package websocket

import (
	"encoding/json"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/room"
)

// Message is the wire envelope in both directions: an action name and an
// action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload covers every inbound and outbound action; unused fields are
// omitted on the wire.
type Payload struct {
	RoomID     string         `json:"roomId,omitempty"`
	Thumbnail  string         `json:"thumbnail,omitempty"`
	SymbolType string         `json:"symbolType,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	PlayerID   string         `json:"playerId,omitempty"`
	Player     *entity.Player `json:"player,omitempty"`
	Symbol     *entity.Symbol `json:"symbol,omitempty"`
	Room       *entity.Room   `json:"room,omitempty"`
	Rooms      []room.Info    `json:"rooms,omitempty"`
	Error      string         `json:"error,omitempty"`
}

const (
	actionCreateRoom    = "createRoom"
	actionJoinRoom      = "joinRoom"
	actionStartGame     = "startGame"
	actionGestureReport = "gestureReport"
	actionDrawingData   = "drawingData"

	actionRoomFull      = "roomFull"
	actionRoomNotFound  = "roomNotFound"
	actionRoomsList     = "roomsList"
	actionPlayerDrawing = "playerDrawing"
)
