package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/room"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512 * 1024 // thumbnails travel as data URLs

	sendBuffer = 64
)

type resultRecorder interface {
	Record(ctx context.Context, roomState *entity.Room)
}

// Server is the gateway between websocket clients and room actors: it routes
// inbound actions to the right room, drains each room's event stream and
// fans events out to the room's connections, and keeps every client's lobby
// listing current.
type Server struct {
	logger   *slog.Logger
	manager  *room.Manager
	recorder resultRecorder
	settings entity.Settings

	upgrader websocket.Upgrader

	mu          sync.RWMutex
	clients     map[string]*client
	memberships map[string]string // connection id -> room id

	handlers map[string]func(ctx context.Context, c *client, payload *Payload, raw json.RawMessage)
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func New(logger *slog.Logger, manager *room.Manager, recorder resultRecorder, settings entity.Settings) *Server {
	server := &Server{
		logger:   logger.With("component", "ws-gateway"),
		manager:  manager,
		recorder: recorder,
		settings: settings,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:     make(map[string]*client),
		memberships: make(map[string]string),
		handlers:    make(map[string]func(context.Context, *client, *Payload, json.RawMessage)),
	}

	server.handlers[actionCreateRoom] = server.handleCreateRoom
	server.handlers[actionJoinRoom] = server.handleJoinRoom
	server.handlers[actionStartGame] = server.handleStartGame
	server.handlers[actionGestureReport] = server.handleGestureReport
	server.handlers[actionDrawingData] = server.handleDrawingData

	return server
}

// Start - starts the WebSocket server and blocks until the context is
// canceled or the listener fails.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connected := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	that.mu.Lock()
	that.clients[connected.id] = connected
	that.mu.Unlock()

	log.Info("client connected", "connID", connected.id)

	go connected.writePump()

	// A freshly connected client gets the current lobby listing right away.
	that.sendTo(connected.id, actionRoomsList, Payload{Rooms: that.manager.ListLobby()})

	that.readLoop(ctx, connected)
}

func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "connID", c.id)

	defer that.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				log.Error("failed to unmarshal payload", "action", message.Action, "error", err)
				continue
			}
		}

		handler(ctx, c, &payload, message.Payload)
	}
}

// disconnect models an implicit leave: the player is removed from its room
// (tearing the room down if it empties) and the connection is unregistered.
func (that *Server) disconnect(c *client) {
	that.mu.Lock()
	roomID, inRoom := that.memberships[c.id]
	delete(that.memberships, c.id)
	delete(that.clients, c.id)
	that.mu.Unlock()

	if inRoom {
		if current, ok := that.manager.Get(roomID); ok {
			current.Leave(c.id)
		}
	}

	c.close()
	that.broadcastRoomsList()

	that.logger.Info("client disconnected", "connID", c.id)
}

func (that *Server) sendTo(connID, action string, payload Payload) {
	that.mu.RLock()
	target, ok := that.clients[connID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	target.enqueue(that.logger, action, payload)
}

func (that *Server) broadcastRoomsList() {
	payload := Payload{Rooms: that.manager.ListLobby()}

	that.mu.RLock()
	targets := make([]*client, 0, len(that.clients))
	for _, connected := range that.clients {
		targets = append(targets, connected)
	}
	that.mu.RUnlock()

	for _, target := range targets {
		target.enqueue(that.logger, actionRoomsList, payload)
	}
}

func (that *client) enqueue(logger *slog.Logger, action string, payload Payload) {
	raw, err := json.Marshal(Message{
		Action:  action,
		Payload: mustMarshal(payload),
	})
	if err != nil {
		logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	select {
	case that.send <- raw:
	default:
		// A client that cannot keep up loses messages, not the whole
		// connection; every room payload is a full snapshot anyway.
		logger.Warn("send buffer full, dropping message", "connID", that.id, "action", action)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return raw
}
