package room

import (
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/glyphtide"
)

// Room codes skip the characters that read ambiguously on a shared screen.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// Manager is the process-wide room registry. It owns creation, lookup and
// deletion; rooms delete themselves through OnEmpty when their last player
// leaves. Per-room state is never touched here: rooms are independent
// actors and only their lock-free Info projections are read.
type Manager struct {
	logger       *slog.Logger
	rules        glyphtide.Rules
	tickInterval time.Duration

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewManager(logger *slog.Logger, rules glyphtide.Rules, tickInterval time.Duration) *Manager {
	return &Manager{
		logger:       logger.With("component", "room-manager"),
		rules:        rules,
		tickInterval: tickInterval,
		rooms:        make(map[string]*Room),
	}
}

// CreateRoom registers a new room under a fresh code and starts its actor.
func (that *Manager) CreateRoom(settings entity.Settings) *Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	var code string
	for {
		code = generateCode(codeLength)
		if _, exists := that.rooms[code]; !exists {
			break
		}
	}

	newRoom := New(that.logger, code, settings, that.rules, that.tickInterval)
	newRoom.OnEmpty = that.remove
	that.rooms[code] = newRoom

	go newRoom.Run()

	that.logger.Info("room created", "roomID", code)

	return newRoom
}

// Get looks up a room by code.
func (that *Manager) Get(id string) (*Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existing, ok := that.rooms[id]

	return existing, ok
}

// ListLobby returns the public lobby listing: rooms still gathering players,
// newest first.
func (that *Manager) ListLobby() []Info {
	that.mu.RLock()
	defer that.mu.RUnlock()

	infos := make([]Info, 0, len(that.rooms))
	for _, existing := range that.rooms {
		info := existing.Info()
		if info.State == entity.StateLobby {
			infos = append(infos, info)
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt > infos[j].CreatedAt
	})

	return infos
}

// Shutdown stops every room actor. Used on process teardown.
func (that *Manager) Shutdown() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, existing := range that.rooms {
		existing.Stop()
		delete(that.rooms, id)
	}
}

func (that *Manager) remove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.rooms[id]; ok {
		delete(that.rooms, id)
		existing.Stop()
		that.logger.Info("room deleted", "roomID", id)
	}
}

func generateCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}

	return string(code)
}
