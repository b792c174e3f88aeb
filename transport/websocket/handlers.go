package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/glyphtide/glyphtide-backend/internal/apperror"
	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/room"
)

func (that *Server) handleCreateRoom(ctx context.Context, c *client, payload *Payload, _ json.RawMessage) {
	log := that.logger.With("method", "handleCreateRoom", "connID", c.id)

	settings := that.settings
	settings.Thumbnail = payload.Thumbnail

	created := that.manager.CreateRoom(settings)
	go that.drainRoomEvents(ctx, created)

	if _, err := created.Join(c.id, true); err != nil {
		log.Error("failed to join freshly created room", "roomID", created.ID, "error", err)
		return
	}

	that.mu.Lock()
	that.memberships[c.id] = created.ID
	that.mu.Unlock()

	that.broadcastRoomsList()

	log.Info("room created", "roomID", created.ID)
}

func (that *Server) handleJoinRoom(_ context.Context, c *client, payload *Payload, _ json.RawMessage) {
	log := that.logger.With("method", "handleJoinRoom", "connID", c.id, "roomID", payload.RoomID)

	existing, ok := that.manager.Get(payload.RoomID)
	if !ok {
		that.sendTo(c.id, actionRoomNotFound, Payload{})
		return
	}

	if _, err := existing.Join(c.id, false); err != nil {
		switch {
		case errors.Is(err, apperror.ErrRoomFull):
			that.sendTo(c.id, actionRoomFull, Payload{})
		case errors.Is(err, apperror.ErrRoomNotFound):
			that.sendTo(c.id, actionRoomNotFound, Payload{})
		default:
			that.sendTo(c.id, actionJoinRoom, Payload{Error: err.Error()})
		}

		log.Info("join rejected", "reason", err)

		return
	}

	that.mu.Lock()
	that.memberships[c.id] = existing.ID
	that.mu.Unlock()

	that.broadcastRoomsList()

	log.Info("player joined room")
}

func (that *Server) handleStartGame(_ context.Context, c *client, _ *Payload, _ json.RawMessage) {
	log := that.logger.With("method", "handleStartGame", "connID", c.id)

	current, ok := that.roomOf(c.id)
	if !ok {
		that.sendTo(c.id, actionStartGame, Payload{Error: apperror.ErrRoomNotFound.Error()})
		return
	}

	if err := current.Start(c.id); err != nil {
		that.sendTo(c.id, actionStartGame, Payload{Error: err.Error()})
		log.Info("start rejected", "reason", err)

		return
	}

	// The room left the lobby listing.
	that.broadcastRoomsList()
}

func (that *Server) handleGestureReport(_ context.Context, c *client, payload *Payload, _ json.RawMessage) {
	current, ok := that.roomOf(c.id)
	if !ok {
		return
	}

	// The raw strokes never reach the server; the client-side recognizer
	// already reduced them to a label and a confidence score. Match results
	// come back through the room's event stream.
	current.Gesture(c.id, entity.SymbolType(payload.SymbolType), payload.Confidence)
}

// handleDrawingData relays in-progress stroke data to the other members of
// the sender's room. The payload is opaque to the server.
func (that *Server) handleDrawingData(_ context.Context, c *client, _ *Payload, raw json.RawMessage) {
	current, ok := that.roomOf(c.id)
	if !ok {
		return
	}

	var data map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return
		}
	}
	if data == nil {
		data = map[string]any{}
	}
	data["playerId"] = c.id

	relayed, err := json.Marshal(Message{Action: actionPlayerDrawing, Payload: mustMarshal(data)})
	if err != nil {
		return
	}

	for _, member := range that.roomMembers(current.ID, c.id) {
		select {
		case member.send <- relayed:
		default:
		}
	}
}

// drainRoomEvents pumps one room's outbound events to its connections until
// the room actor closes the stream. Terminal events are recorded before
// fan-out so a crash after broadcast cannot lose the result.
func (that *Server) drainRoomEvents(ctx context.Context, source *room.Room) {
	for event := range source.Events() {
		if event.Type == room.EventGameLost || event.Type == room.EventGameWon {
			that.recorder.Record(ctx, event.Room)
		}

		that.fanOut(event)

		switch event.Type {
		case room.EventPlayerJoined, room.EventPlayerLeft, room.EventGameStarted:
			that.broadcastRoomsList()
		}
	}
}

func (that *Server) fanOut(event room.Event) {
	payload := Payload{
		PlayerID: event.PlayerID,
		Player:   event.Player,
		Symbol:   event.Symbol,
		Room:     event.Room,
	}

	if event.Type == room.EventRoomCreated && event.Room != nil {
		payload.RoomID = event.Room.ID
	}

	if event.TargetID != "" {
		that.sendTo(event.TargetID, string(event.Type), payload)
		return
	}

	if event.Room == nil {
		return
	}

	for _, player := range event.Room.Players {
		if player.ID == event.ExceptID {
			continue
		}

		that.sendTo(player.ID, string(event.Type), payload)
	}
}

func (that *Server) roomOf(connID string) (*room.Room, bool) {
	that.mu.RLock()
	roomID, ok := that.memberships[connID]
	that.mu.RUnlock()

	if !ok {
		return nil, false
	}

	return that.manager.Get(roomID)
}

func (that *Server) roomMembers(roomID, exceptID string) []*client {
	that.mu.RLock()
	defer that.mu.RUnlock()

	members := make([]*client, 0, len(that.memberships))
	for connID, memberRoomID := range that.memberships {
		if memberRoomID != roomID || connID == exceptID {
			continue
		}

		if member, ok := that.clients[connID]; ok {
			members = append(members, member)
		}
	}

	return members
}
